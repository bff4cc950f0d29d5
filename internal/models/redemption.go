package models

import "github.com/google/uuid"

// Redemption statuses. A redemption leaves pending exactly once.
const (
	RedemptionStatusPending  = "pending"
	RedemptionStatusApproved = "approved"
	RedemptionStatusRejected = "rejected"
)

// Redemption is a user's claim of a purchased gift card, submitted with a
// proof image and resolved by an admin.
type Redemption struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User          *User     `json:"user,omitempty"`
	GiftCardID    uuid.UUID `gorm:"type:uuid;index" json:"gift_card_id"`
	GiftCard      *GiftCard `json:"gift_card,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	CreditedCents int64     `json:"credited_cents"`
	ImageURL      string    `json:"image_url"`
	ImagePublicID string    `json:"-"`
	Status        string    `gorm:"default:pending;index" json:"status"`
	Reason        string    `json:"reason,omitempty"`
}
