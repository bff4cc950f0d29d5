package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/repository"
)

// Store describes the persistence contract the workflow services run on.
// Implemented by repository.Store; tests substitute an in-memory fake.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
	GetGiftCard(ctx context.Context, id uuid.UUID) (*models.GiftCard, error)

	CreateRedemption(ctx context.Context, r *models.Redemption) error
	GetRedemption(ctx context.Context, id uuid.UUID) (*models.Redemption, error)
	ApproveRedemption(ctx context.Context, id, userID uuid.UUID, creditCents int64) error
	RejectRedemption(ctx context.Context, id uuid.UUID, reason string) error

	CreateReferral(ctx context.Context, r *models.Referral) error
	GetReferralByReferredUser(ctx context.Context, referredUserID uuid.UUID) (*models.Referral, error)
	AccrueReferral(ctx context.Context, referredUserID uuid.UUID, deltaCents int64) (*models.Referral, error)
	PayReferralBonus(ctx context.Context, referredUserID uuid.UUID, referrerCode string, bonusCents int64) (bool, error)
	CountReferrals(ctx context.Context, referrerCode string) (int64, error)

	SubmitWithdrawal(ctx context.Context, w *models.Withdrawal) error
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID) error
	RejectWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)

	ListBalanceDrift(ctx context.Context) ([]repository.BalanceDrift, error)
}
