package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/giftvault/internal/models"
)

// Store is the gorm-backed persistence layer. Status transitions are
// compare-and-set updates keyed on the current status, and every balance
// mutation goes through the ledger primitives creditTx/debitTx so the cached
// balance and the ledger never diverge within a transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// BalanceDrift reports a user whose cached balance disagrees with the sum of
// their ledger entries.
type BalanceDrift struct {
	UserID       uuid.UUID `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	LedgerCents  int64     `json:"ledger_cents"`
}

// Users

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "referral_code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Gift cards

func (s *Store) GetGiftCard(ctx context.Context, id uuid.UUID) (*models.GiftCard, error) {
	var card models.GiftCard
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

// Redemptions

func (s *Store) CreateRedemption(ctx context.Context, r *models.Redemption) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) GetRedemption(ctx context.Context, id uuid.UUID) (*models.Redemption, error) {
	var r models.Redemption
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// ApproveRedemption flips the redemption to approved and credits the user in
// one transaction. The status update is conditional on the current status
// being pending; concurrent approvals resolve to exactly one winner.
func (s *Store) ApproveRedemption(ctx context.Context, id, userID uuid.UUID, creditCents int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Redemption{}).
			Where("id = ? AND status = ?", id, models.RedemptionStatusPending).
			Updates(map[string]any{
				"status":         models.RedemptionStatusApproved,
				"credited_cents": creditCents,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pendingConflict(tx, &models.Redemption{}, id)
		}

		return creditTx(tx, userID, creditCents, models.LedgerKindRedemptionCredit, &id)
	})
}

// RejectRedemption flips the redemption to rejected with the given reason.
// No balance effect.
func (s *Store) RejectRedemption(ctx context.Context, id uuid.UUID, reason string) error {
	res := s.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("id = ? AND status = ?", id, models.RedemptionStatusPending).
		Updates(map[string]any{
			"status": models.RedemptionStatusRejected,
			"reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pendingConflict(s.db.WithContext(ctx), &models.Redemption{}, id)
	}
	return nil
}

// Referrals

func (s *Store) CreateReferral(ctx context.Context, r *models.Referral) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) GetReferralByReferredUser(ctx context.Context, referredUserID uuid.UUID) (*models.Referral, error) {
	var r models.Referral
	if err := s.db.WithContext(ctx).First(&r, "referred_user_id = ?", referredUserID).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// AccrueReferral adds the approved amount to the not-yet-redeemed edge of the
// referred user and returns the updated edge. Returns nil when no open edge
// exists.
func (s *Store) AccrueReferral(ctx context.Context, referredUserID uuid.UUID, deltaCents int64) (*models.Referral, error) {
	res := s.db.WithContext(ctx).Model(&models.Referral{}).
		Where("referred_user_id = ? AND is_redeemed = ?", referredUserID, false).
		UpdateColumn("approved_total_cents", gorm.Expr("approved_total_cents + ?", deltaCents))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var r models.Referral
	if err := s.db.WithContext(ctx).First(&r, "referred_user_id = ?", referredUserID).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// PayReferralBonus claims the referred user's open edge and credits the
// referrer's earnings in one transaction. The claim is a compare-and-set on
// is_redeemed, so a racing second approval for the same referred user pays
// nothing. Returns true only when the bonus was actually credited.
func (s *Store) PayReferralBonus(ctx context.Context, referredUserID uuid.UUID, referrerCode string, bonusCents int64) (bool, error) {
	paid := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Referral{}).
			Where("referred_user_id = ? AND is_redeemed = ?", referredUserID, false).
			Updates(map[string]any{
				"is_redeemed": true,
				"redeemed_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		// Earnings are a counter separate from spendable balance; the edge
		// claim stands even when the referrer account no longer exists.
		credit := tx.Model(&models.User{}).
			Where("referral_code = ?", referrerCode).
			UpdateColumn("referral_earnings_cents", gorm.Expr("referral_earnings_cents + ?", bonusCents))
		if credit.Error != nil {
			return credit.Error
		}
		paid = credit.RowsAffected > 0
		return nil
	})
	return paid, err
}

func (s *Store) CountReferrals(ctx context.Context, referrerCode string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_code = ?", referrerCode).
		Count(&count).Error
	return count, err
}

// Withdrawals

// SubmitWithdrawal debits the user and records the pending withdrawal plus
// its ledger hold entry in one transaction. The debit fails the whole
// submission when the balance cannot cover the amount.
func (s *Store) SubmitWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		return debitTx(tx, w.UserID, w.AmountCents, models.LedgerKindWithdrawalHold, &w.ID)
	})
}

func (s *Store) GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := s.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// ApproveWithdrawal finalizes a pending withdrawal. The debit was applied at
// submission, so approval changes no balance.
func (s *Store) ApproveWithdrawal(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Update("status", models.WithdrawalStatusApproved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pendingConflict(s.db.WithContext(ctx), &models.Withdrawal{}, id)
	}
	return nil
}

// RejectWithdrawal flips a pending withdrawal to rejected and refunds the
// held amount in one transaction. The pending-only guard makes a second
// reject a no-op error rather than a double refund.
func (s *Store) RejectWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&w, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if w.Status != models.WithdrawalStatusPending {
			return ErrAlreadyProcessed
		}

		if err := tx.Model(&models.Withdrawal{}).
			Where("id = ?", id).
			Update("status", models.WithdrawalStatusRejected).Error; err != nil {
			return err
		}
		w.Status = models.WithdrawalStatusRejected

		return creditTx(tx, w.UserID, w.AmountCents, models.LedgerKindWithdrawalRefund, &id)
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Reconciliation

// ListBalanceDrift returns users whose cached balance does not equal the sum
// of their ledger entries.
func (s *Store) ListBalanceDrift(ctx context.Context) ([]BalanceDrift, error) {
	var drifts []BalanceDrift
	err := s.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id,
		       u.balance_cents,
		       COALESCE(SUM(l.delta_cents), 0) AS ledger_cents
		FROM users u
		LEFT JOIN ledger_entries l ON l.user_id = u.id
		GROUP BY u.id, u.balance_cents
		HAVING u.balance_cents <> COALESCE(SUM(l.delta_cents), 0)`).
		Scan(&drifts).Error
	return drifts, err
}

// Ledger primitives. These are the only writers of users.balance_cents; both
// apply the delta directly in SQL so concurrent mutations on the same user
// never lose updates.

func creditTx(tx *gorm.DB, userID uuid.UUID, amountCents int64, kind string, refID *uuid.UUID) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Create(&models.LedgerEntry{
		UserID:      userID,
		DeltaCents:  amountCents,
		Kind:        kind,
		ReferenceID: refID,
	}).Error
}

func debitTx(tx *gorm.DB, userID uuid.UUID, amountCents int64, kind string, refID *uuid.UUID) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND balance_cents >= ?", userID, amountCents).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents - ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientFunds
	}

	return tx.Create(&models.LedgerEntry{
		UserID:      userID,
		DeltaCents:  -amountCents,
		Kind:        kind,
		ReferenceID: refID,
	}).Error
}

// pendingConflict reports why a conditional status update matched no rows.
func pendingConflict(tx *gorm.DB, model any, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrAlreadyProcessed
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
