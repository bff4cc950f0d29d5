package models

import "github.com/google/uuid"

// Activity types.
const (
	ActivityTypeRedemption = "redemption"
	ActivityTypeWithdrawal = "withdrawal"
	ActivityTypeReferral   = "referral"
)

// Activity is a human-readable event on a user's timeline.
type Activity struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
