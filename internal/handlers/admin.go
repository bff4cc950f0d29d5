package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalGiftCards int64
	if err := h.db.Model(&models.GiftCard{}).Count(&totalGiftCards).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var redemptionCounts []statusCount
	if err := h.db.Model(&models.Redemption{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&redemptionCounts).Error; err != nil {
		return err
	}

	redemptionsByStatus := make(map[string]int64)
	for _, sc := range redemptionCounts {
		redemptionsByStatus[sc.Status] = sc.Count
	}

	var pendingWithdrawals int64
	if err := h.db.Model(&models.Withdrawal{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Count(&pendingWithdrawals).Error; err != nil {
		return err
	}

	var totalCreditedCents int64
	if err := h.db.Model(&models.Redemption{}).
		Where("status = ?", models.RedemptionStatusApproved).
		Select("COALESCE(SUM(credited_cents), 0)").
		Scan(&totalCreditedCents).Error; err != nil {
		return err
	}

	var totalBonusCents int64
	if err := h.db.Model(&models.User{}).
		Select("COALESCE(SUM(referral_earnings_cents), 0)").
		Scan(&totalBonusCents).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":           totalUsers,
			"total_gift_cards":      totalGiftCards,
			"redemptions_by_status": redemptionsByStatus,
			"pending_withdrawals":   pendingWithdrawals,
			"total_credited":        centsToUnits(totalCreditedCents),
			"total_referral_bonus":  centsToUnits(totalBonusCents),
		},
	})
}

// ListUsers returns all users with balances. Admin only.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
