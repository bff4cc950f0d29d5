package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/middleware"
	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/utils"
)

// ActivityHandler exposes activity timelines.
type ActivityHandler struct {
	db *gorm.DB
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// List returns the caller's activities; admins see everyone's.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Activity{})
	if middleware.GetCurrentRole(c) != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var activities []models.Activity
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&activities).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    activities,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
