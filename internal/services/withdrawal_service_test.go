package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

func newWithdrawalFixture(t *testing.T) (*WithdrawalService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewWithdrawalService(store, nil, nil), store
}

func TestWithdrawalSubmitHoldsBalance(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	ctx := context.Background()

	user := store.addUser(&models.User{BalanceCents: 5000})

	withdrawal, remaining, err := svc.Submit(ctx, user.ID, 3000, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)
	assert.Equal(t, int64(3000), withdrawal.AmountCents)
	assert.Equal(t, int64(2000), remaining)

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.BalanceCents)
}

func TestWithdrawalSubmitInsufficientFunds(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	ctx := context.Background()

	user := store.addUser(&models.User{BalanceCents: 1000})

	_, _, err := svc.Submit(ctx, user.ID, 2500, "0123456789", "First Bank", "Jane Doe")
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), updated.BalanceCents, "failed submission must not touch the balance")
}

func TestWithdrawalSubmitNonPositiveAmount(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	user := store.addUser(&models.User{BalanceCents: 1000})

	_, _, err := svc.Submit(context.Background(), user.ID, 0, "0123456789", "First Bank", "Jane Doe")
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)

	_, _, err = svc.Submit(context.Background(), user.ID, -500, "0123456789", "First Bank", "Jane Doe")
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)
}

func TestWithdrawalApprove(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	ctx := context.Background()

	user := store.addUser(&models.User{BalanceCents: 5000})
	withdrawal, _, err := svc.Submit(ctx, user.ID, 3000, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)

	approved, balance, err := svc.Approve(ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	assert.Equal(t, int64(2000), balance, "approval must not move the balance again")

	_, _, err = svc.Approve(ctx, withdrawal.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyProcessed)
}

func TestWithdrawalRejectRefunds(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	ctx := context.Background()

	user := store.addUser(&models.User{BalanceCents: 5000})
	withdrawal, _, err := svc.Submit(ctx, user.ID, 3000, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)

	rejected, balance, err := svc.Reject(ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)
	assert.Equal(t, int64(5000), balance, "rejection refunds exactly the held amount")

	// A second rejection must not refund twice.
	_, _, err = svc.Reject(ctx, withdrawal.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyProcessed)

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.BalanceCents)
}

func TestWithdrawalRejectAfterApprove(t *testing.T) {
	svc, store := newWithdrawalFixture(t)
	ctx := context.Background()

	user := store.addUser(&models.User{BalanceCents: 5000})
	withdrawal, _, err := svc.Submit(ctx, user.ID, 3000, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)

	_, _, err = svc.Approve(ctx, withdrawal.ID)
	require.NoError(t, err)

	_, _, err = svc.Reject(ctx, withdrawal.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyProcessed)

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.BalanceCents)
}

// Every balance mutation writes a ledger entry, so after any sequence of
// operations the ledger sum matches the cached balance.
func TestLedgerMatchesBalanceAfterFlows(t *testing.T) {
	store := newFakeStore()
	withdrawals := NewWithdrawalService(store, nil, nil)
	redemptions := NewRedemptionService(store, NewReferralService(store, testConfig()), nil, nil)
	ctx := context.Background()

	user := store.addUser(&models.User{})
	card := store.addGiftCard(&models.GiftCard{ValueCents: 5000})

	redemption, err := redemptions.Submit(ctx, user.ID, card.ID, 5000, "", "")
	require.NoError(t, err)
	_, err = redemptions.Approve(ctx, redemption.ID)
	require.NoError(t, err)

	held, _, err := withdrawals.Submit(ctx, user.ID, 2000, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)
	_, _, err = withdrawals.Reject(ctx, held.ID)
	require.NoError(t, err)

	paid, _, err := withdrawals.Submit(ctx, user.ID, 1500, "0123456789", "First Bank", "Jane Doe")
	require.NoError(t, err)
	_, _, err = withdrawals.Approve(ctx, paid.ID)
	require.NoError(t, err)

	drifts, err := store.ListBalanceDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), updated.BalanceCents)
}
