package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

// fakeStore is an in-memory Store with the same compare-and-set semantics as
// the postgres implementation.
type fakeStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*models.User
	giftCards   map[uuid.UUID]*models.GiftCard
	redemptions map[uuid.UUID]*models.Redemption
	referrals   map[uuid.UUID]*models.Referral // keyed by referred user id
	withdrawals map[uuid.UUID]*models.Withdrawal
	ledger      []models.LedgerEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uuid.UUID]*models.User),
		giftCards:   make(map[uuid.UUID]*models.GiftCard),
		redemptions: make(map[uuid.UUID]*models.Redemption),
		referrals:   make(map[uuid.UUID]*models.Referral),
		withdrawals: make(map[uuid.UUID]*models.Withdrawal),
	}
}

func (f *fakeStore) addUser(u *models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addGiftCard(g *models.GiftCard) *models.GiftCard {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.giftCards[g.ID] = g
	return g
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByReferralCode(_ context.Context, code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ReferralCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetGiftCard(_ context.Context, id uuid.UUID) (*models.GiftCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.giftCards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeStore) CreateRedemption(_ context.Context, r *models.Redemption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	copied := *r
	f.redemptions[r.ID] = &copied
	return nil
}

func (f *fakeStore) GetRedemption(_ context.Context, id uuid.UUID) (*models.Redemption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.redemptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) ApproveRedemption(_ context.Context, id, userID uuid.UUID, creditCents int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.redemptions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.Status != models.RedemptionStatusPending {
		return repository.ErrAlreadyProcessed
	}

	if err := f.credit(userID, creditCents, models.LedgerKindRedemptionCredit, &id); err != nil {
		return err
	}
	r.Status = models.RedemptionStatusApproved
	r.CreditedCents = creditCents
	return nil
}

func (f *fakeStore) RejectRedemption(_ context.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.redemptions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.Status != models.RedemptionStatusPending {
		return repository.ErrAlreadyProcessed
	}
	r.Status = models.RedemptionStatusRejected
	r.Reason = reason
	return nil
}

func (f *fakeStore) CreateReferral(_ context.Context, r *models.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	copied := *r
	f.referrals[r.ReferredUserID] = &copied
	return nil
}

func (f *fakeStore) GetReferralByReferredUser(_ context.Context, referredUserID uuid.UUID) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.referrals[referredUserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) AccrueReferral(_ context.Context, referredUserID uuid.UUID, deltaCents int64) (*models.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.referrals[referredUserID]
	if !ok || r.IsRedeemed {
		return nil, nil
	}
	r.ApprovedTotalCents += deltaCents
	copied := *r
	return &copied, nil
}

func (f *fakeStore) PayReferralBonus(_ context.Context, referredUserID uuid.UUID, referrerCode string, bonusCents int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.referrals[referredUserID]
	if !ok || r.IsRedeemed {
		return false, nil
	}
	now := time.Now()
	r.IsRedeemed = true
	r.RedeemedAt = &now

	for _, u := range f.users {
		if u.ReferralCode == referrerCode {
			u.ReferralEarningsCents += bonusCents
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountReferrals(_ context.Context, referrerCode string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.referrals {
		if r.ReferrerCode == referrerCode {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SubmitWithdrawal(_ context.Context, w *models.Withdrawal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if err := f.debit(w.UserID, w.AmountCents, models.LedgerKindWithdrawalHold, &w.ID); err != nil {
		return err
	}
	copied := *w
	f.withdrawals[w.ID] = &copied
	return nil
}

func (f *fakeStore) GetWithdrawal(_ context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.withdrawals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (f *fakeStore) ApproveWithdrawal(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.withdrawals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if w.Status != models.WithdrawalStatusPending {
		return repository.ErrAlreadyProcessed
	}
	w.Status = models.WithdrawalStatusApproved
	return nil
}

func (f *fakeStore) RejectWithdrawal(_ context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.withdrawals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if w.Status != models.WithdrawalStatusPending {
		return nil, repository.ErrAlreadyProcessed
	}
	w.Status = models.WithdrawalStatusRejected

	if err := f.credit(w.UserID, w.AmountCents, models.LedgerKindWithdrawalRefund, &id); err != nil {
		return nil, err
	}
	copied := *w
	return &copied, nil
}

func (f *fakeStore) ListBalanceDrift(_ context.Context) ([]repository.BalanceDrift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sums := make(map[uuid.UUID]int64)
	for _, e := range f.ledger {
		sums[e.UserID] += e.DeltaCents
	}

	var drifts []repository.BalanceDrift
	for id, u := range f.users {
		if u.BalanceCents != sums[id] {
			drifts = append(drifts, repository.BalanceDrift{
				UserID:       id,
				BalanceCents: u.BalanceCents,
				LedgerCents:  sums[id],
			})
		}
	}
	return drifts, nil
}

func (f *fakeStore) credit(userID uuid.UUID, amountCents int64, kind string, refID *uuid.UUID) error {
	if amountCents <= 0 {
		return repository.ErrInvalidAmount
	}
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.BalanceCents += amountCents
	f.ledger = append(f.ledger, models.LedgerEntry{
		UserID:      userID,
		DeltaCents:  amountCents,
		Kind:        kind,
		ReferenceID: refID,
	})
	return nil
}

func (f *fakeStore) debit(userID uuid.UUID, amountCents int64, kind string, refID *uuid.UUID) error {
	if amountCents <= 0 {
		return repository.ErrInvalidAmount
	}
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.BalanceCents < amountCents {
		return repository.ErrInsufficientFunds
	}
	u.BalanceCents -= amountCents
	f.ledger = append(f.ledger, models.LedgerEntry{
		UserID:      userID,
		DeltaCents:  -amountCents,
		Kind:        kind,
		ReferenceID: refID,
	})
	return nil
}
