package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/giftvault/internal/config"
	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

// ReferralService tracks referrer-referred edges and pays the one-time bonus
// when a referred user's redemption qualifies. The bonus amount and policy
// are injected at construction so behavior is deterministic per instance.
type ReferralService struct {
	store          Store
	bonusCents     int64
	policy         string
	thresholdCents int64
}

// NewReferralService constructs a ReferralService.
func NewReferralService(store Store, cfg *config.Config) *ReferralService {
	return &ReferralService{
		store:          store,
		bonusCents:     cfg.ReferralBonusCents,
		policy:         cfg.ReferralPolicy,
		thresholdCents: cfg.ReferralThresholdCents,
	}
}

// RegisterEdge records the referrer-referred relationship at registration.
// An unknown referrer code is a soft failure: no edge is created and nil is
// returned without error. At most one edge exists per referred user.
func (s *ReferralService) RegisterEdge(ctx context.Context, referrerCode string, referredUserID uuid.UUID) (*models.Referral, error) {
	if referrerCode == "" {
		return nil, nil
	}

	referrer, err := s.store.GetUserByReferralCode(ctx, referrerCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if referrer.ID == referredUserID {
		return nil, nil
	}

	if existing, err := s.store.GetReferralByReferredUser(ctx, referredUserID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	edge := &models.Referral{
		ReferrerCode:   referrerCode,
		ReferredUserID: referredUserID,
	}
	if err := s.store.CreateReferral(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Evaluate checks whether an approved redemption earns the referrer a bonus
// and pays it at most once per edge. Callers treat a returned error as a
// warning: the approval that triggered the evaluation already succeeded.
func (s *ReferralService) Evaluate(ctx context.Context, user *models.User, approvedCents int64) error {
	if user.ReferredBy == nil || *user.ReferredBy == "" {
		return nil
	}

	if s.policy == config.ReferralPolicyCumulative {
		edge, err := s.store.AccrueReferral(ctx, user.ID, approvedCents)
		if err != nil {
			return err
		}
		if edge == nil || edge.ApprovedTotalCents < s.thresholdCents {
			return nil
		}
	}

	paid, err := s.store.PayReferralBonus(ctx, user.ID, *user.ReferredBy, s.bonusCents)
	if err != nil {
		return err
	}
	if paid {
		logrus.WithFields(logrus.Fields{
			"referred_user": user.ID,
			"referrer_code": *user.ReferredBy,
			"bonus_cents":   s.bonusCents,
		}).Info("referral bonus paid")
	}
	return nil
}

// Stats returns how many users a referral code has brought in and the
// referrer's cumulative earnings.
func (s *ReferralService) Stats(ctx context.Context, referralCode string) (count int64, earningsCents int64, err error) {
	referrer, err := s.store.GetUserByReferralCode(ctx, referralCode)
	if err != nil {
		return 0, 0, err
	}

	count, err = s.store.CountReferrals(ctx, referralCode)
	if err != nil {
		return 0, 0, err
	}
	return count, referrer.ReferralEarningsCents, nil
}
