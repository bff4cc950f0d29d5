package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/services"
)

// ReferralHandler exposes referral statistics.
type ReferralHandler struct {
	db  *gorm.DB
	svc *services.ReferralService
}

// NewReferralHandler constructs a ReferralHandler.
func NewReferralHandler(db *gorm.DB, svc *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{db: db, svc: svc}
}

// Stats returns how many users a referral code brought in and the referrer's
// cumulative earnings.
func (h *ReferralHandler) Stats(c *fiber.Ctx) error {
	code := c.Params("code")

	count, earningsCents, err := h.svc.Stats(c.UserContext(), code)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"count":    count,
		"earnings": centsToUnits(earningsCents),
	})
}

// Leaderboard returns the top referrers by earnings.
func (h *ReferralHandler) Leaderboard(c *fiber.Ctx) error {
	type leaderboardRow struct {
		Name          string  `json:"name"`
		Email         string  `json:"email"`
		EarningsCents int64   `json:"-"`
		Earnings      float64 `json:"earnings"`
	}

	var rows []leaderboardRow
	if err := h.db.Model(&models.User{}).
		Select("name, email, referral_earnings_cents AS earnings_cents").
		Where("referral_earnings_cents > 0").
		Order("referral_earnings_cents desc").
		Limit(10).
		Scan(&rows).Error; err != nil {
		return err
	}

	for i := range rows {
		rows[i].Earnings = centsToUnits(rows[i].EarningsCents)
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}
