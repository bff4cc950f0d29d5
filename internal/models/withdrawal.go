package models

import "github.com/google/uuid"

// Withdrawal statuses. The balance is debited when the request is created;
// approval finalizes the debit, rejection refunds it.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Withdrawal is a request to cash out balance to a bank account.
type Withdrawal struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `gorm:"default:pending;index" json:"status"`
	AccountNumber string    `json:"account_number"`
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
}
