package repository

import "errors"

// Workflow errors surfaced to callers. Handlers translate these into HTTP
// statuses; they are never swallowed inside the repository or services.
var (
	// ErrNotFound means an entity id did not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyProcessed means a pending-only transition was attempted on a
	// record that already left the pending state.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrInsufficientFunds means a debit would have taken the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidReference means a foreign key (gift card, referral code) does
	// not resolve where it is required to.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidAmount means a credit or debit amount was not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
)
