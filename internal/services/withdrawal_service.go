package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

// WithdrawalService drives a withdrawal through pending -> approved|rejected.
// The balance is debited at submission as a reservation; rejection refunds
// exactly the held amount.
type WithdrawalService struct {
	store      Store
	telegram   *TelegramService
	activities *ActivityService
}

// NewWithdrawalService constructs a WithdrawalService.
func NewWithdrawalService(store Store, telegram *TelegramService, activities *ActivityService) *WithdrawalService {
	return &WithdrawalService{
		store:      store,
		telegram:   telegram,
		activities: activities,
	}
}

// Submit reserves the amount from the user's balance and records the pending
// withdrawal. Fails with ErrInsufficientFunds without touching the balance
// when it cannot be covered. Returns the withdrawal and remaining balance.
func (s *WithdrawalService) Submit(ctx context.Context, userID uuid.UUID, amountCents int64, accountNumber, bankName, accountName string) (*models.Withdrawal, int64, error) {
	if amountCents <= 0 {
		return nil, 0, repository.ErrInvalidAmount
	}

	withdrawal := &models.Withdrawal{
		UserID:        userID,
		AmountCents:   amountCents,
		Status:        models.WithdrawalStatusPending,
		AccountNumber: accountNumber,
		BankName:      bankName,
		AccountName:   accountName,
	}
	if err := s.store.SubmitWithdrawal(ctx, withdrawal); err != nil {
		return nil, 0, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	s.activities.Log(ctx, userID, models.ActivityTypeWithdrawal,
		"Withdrawal Requested", fmt.Sprintf("You requested a withdrawal of %s.", formatCents(amountCents)))

	if s.telegram != nil {
		go s.telegram.NotifyWithdrawalRequested(withdrawal)
	}

	return withdrawal, user.BalanceCents, nil
}

// Approve finalizes a pending withdrawal. The hold placed at submission is
// the payout; no further balance movement happens here.
func (s *WithdrawalService) Approve(ctx context.Context, id uuid.UUID) (*models.Withdrawal, int64, error) {
	if err := s.store.ApproveWithdrawal(ctx, id); err != nil {
		return nil, 0, err
	}

	withdrawal, err := s.store.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	user, err := s.store.GetUser(ctx, withdrawal.UserID)
	if err != nil {
		return nil, 0, err
	}

	s.activities.Log(ctx, withdrawal.UserID, models.ActivityTypeWithdrawal,
		"Withdrawal Approved", fmt.Sprintf("Your withdrawal of %s was approved.", formatCents(withdrawal.AmountCents)))

	return withdrawal, user.BalanceCents, nil
}

// Reject cancels a pending withdrawal and refunds the held amount. The
// pending-only guard inside the store prevents a double refund.
func (s *WithdrawalService) Reject(ctx context.Context, id uuid.UUID) (*models.Withdrawal, int64, error) {
	withdrawal, err := s.store.RejectWithdrawal(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	user, err := s.store.GetUser(ctx, withdrawal.UserID)
	if err != nil {
		return nil, 0, err
	}

	s.activities.Log(ctx, withdrawal.UserID, models.ActivityTypeWithdrawal,
		"Withdrawal Rejected", fmt.Sprintf("Your withdrawal of %s was rejected and funds have been returned to your balance.", formatCents(withdrawal.AmountCents)))

	return withdrawal, user.BalanceCents, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
