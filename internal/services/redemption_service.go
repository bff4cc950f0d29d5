package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

// Default reason stored when an admin rejects without giving one.
const defaultRejectReason = "No reason provided"

// RedemptionService drives a redemption through pending -> approved|rejected.
// Approval owns the side effect of crediting the submitter and triggers the
// referral evaluation; referral failures never roll back the approval.
type RedemptionService struct {
	store      Store
	referrals  *ReferralService
	telegram   *TelegramService
	activities *ActivityService
}

// NewRedemptionService constructs a RedemptionService.
func NewRedemptionService(store Store, referrals *ReferralService, telegram *TelegramService, activities *ActivityService) *RedemptionService {
	return &RedemptionService{
		store:      store,
		referrals:  referrals,
		telegram:   telegram,
		activities: activities,
	}
}

// ApproveResult is what an approval reports back to the caller.
type ApproveResult struct {
	Redemption *models.Redemption
	// BalanceCents is the submitter's balance after the credit.
	BalanceCents int64
	// ReferralWarning carries a referral evaluation failure. The approval
	// itself succeeded; the bonus may need a manual retry.
	ReferralWarning error
}

// Submit records a pending redemption for the given gift card. The gift card
// must exist; the proof image has already been uploaded by the caller.
func (s *RedemptionService) Submit(ctx context.Context, userID, giftCardID uuid.UUID, amountCents int64, imageURL, imagePublicID string) (*models.Redemption, error) {
	if _, err := s.store.GetGiftCard(ctx, giftCardID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrInvalidReference
		}
		return nil, err
	}

	redemption := &models.Redemption{
		UserID:        userID,
		GiftCardID:    giftCardID,
		AmountCents:   amountCents,
		ImageURL:      imageURL,
		ImagePublicID: imagePublicID,
		Status:        models.RedemptionStatusPending,
	}
	if err := s.store.CreateRedemption(ctx, redemption); err != nil {
		return nil, err
	}

	s.activities.Log(ctx, userID, models.ActivityTypeRedemption,
		"Gift Card Submitted", "Your gift card was submitted for review.")

	if s.telegram != nil {
		go s.telegram.NotifyRedemptionSubmitted(redemption)
	}

	return redemption, nil
}

// Approve resolves a pending redemption in the submitter's favor. The credit
// amount is the gift card's catalog value when it resolves, otherwise the
// claimed amount. Status flip and credit commit atomically; a concurrent
// second approval gets ErrAlreadyProcessed and credits nothing.
func (s *RedemptionService) Approve(ctx context.Context, id uuid.UUID) (*ApproveResult, error) {
	redemption, err := s.store.GetRedemption(ctx, id)
	if err != nil {
		return nil, err
	}

	creditCents := redemption.AmountCents
	if card, err := s.store.GetGiftCard(ctx, redemption.GiftCardID); err == nil && card.ValueCents > 0 {
		creditCents = card.ValueCents
	}

	if err := s.store.ApproveRedemption(ctx, redemption.ID, redemption.UserID, creditCents); err != nil {
		return nil, err
	}
	redemption.Status = models.RedemptionStatusApproved
	redemption.CreditedCents = creditCents

	user, err := s.store.GetUser(ctx, redemption.UserID)
	if err != nil {
		return nil, err
	}

	result := &ApproveResult{
		Redemption:   redemption,
		BalanceCents: user.BalanceCents,
	}

	if s.referrals != nil {
		if err := s.referrals.Evaluate(ctx, user, creditCents); err != nil {
			logrus.WithError(err).WithField("redemption", redemption.ID).
				Warn("referral evaluation failed after approval")
			result.ReferralWarning = err
		}
	}

	s.activities.Log(ctx, user.ID, models.ActivityTypeRedemption,
		"Redemption Approved", "Your gift card redemption was approved and your balance was credited.")

	if s.telegram != nil {
		go s.telegram.NotifyRedemptionResolved(redemption)
	}

	return result, nil
}

// Reject resolves a pending redemption against the submitter, storing the
// reason verbatim. No balance effect.
func (s *RedemptionService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Redemption, error) {
	if reason == "" {
		reason = defaultRejectReason
	}

	redemption, err := s.store.GetRedemption(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.RejectRedemption(ctx, redemption.ID, reason); err != nil {
		return nil, err
	}
	redemption.Status = models.RedemptionStatusRejected
	redemption.Reason = reason

	s.activities.Log(ctx, redemption.UserID, models.ActivityTypeRedemption,
		"Redemption Rejected", "Your gift card redemption was rejected: "+reason)

	if s.telegram != nil {
		go s.telegram.NotifyRedemptionResolved(redemption)
	}

	return redemption, nil
}
