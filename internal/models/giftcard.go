package models

// GiftCard is a catalog entry users can redeem against. The catalog value is
// authoritative when a redemption is approved.
type GiftCard struct {
	BaseModel
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	Slug       string `gorm:"uniqueIndex" json:"slug"`
	ValueCents int64  `json:"value_cents"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"image_url"`
}
