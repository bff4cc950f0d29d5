package models

import "github.com/google/uuid"

// Ledger entry kinds.
const (
	LedgerKindRedemptionCredit = "redemption_credit"
	LedgerKindWithdrawalHold   = "withdrawal_hold"
	LedgerKindWithdrawalRefund = "withdrawal_refund"
)

// LedgerEntry records a single balance mutation. Entries are append-only and
// written in the same database transaction as the balance update, so summing
// a user's deltas always reproduces their cached balance.
type LedgerEntry struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	DeltaCents  int64      `json:"delta_cents"`
	Kind        string     `json:"kind"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
}
