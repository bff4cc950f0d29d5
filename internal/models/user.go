package models

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. BalanceCents is a cached sum of the
// user's ledger entries and must only be mutated through the repository's
// ledger primitives.
type User struct {
	BaseModel
	Name                  string  `json:"name"`
	Email                 string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash          string  `json:"-"`
	Role                  string  `gorm:"default:user" json:"role"`
	BalanceCents          int64   `json:"balance_cents"`
	ReferralCode          string  `gorm:"uniqueIndex" json:"referral_code"`
	ReferredBy            *string `json:"referred_by,omitempty"`
	ReferralEarningsCents int64   `json:"referral_earnings_cents"`

	Withdrawals []Withdrawal `json:"withdrawals,omitempty"`
	Redemptions []Redemption `json:"redemptions,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
