package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral is a single referrer-to-referred edge created at registration.
// IsRedeemed flips false to true exactly once; the referral bonus is paid on
// that transition and never again for the same edge.
type Referral struct {
	BaseModel
	ReferrerCode       string     `gorm:"index" json:"referrer_code"`
	ReferredUserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"referred_user_id"`
	IsRedeemed         bool       `json:"is_redeemed"`
	ApprovedTotalCents int64      `json:"approved_total_cents"`
	RedeemedAt         *time.Time `json:"redeemed_at,omitempty"`
}
