package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/models"
)

// GiftCardHandler manages the gift-card catalog.
type GiftCardHandler struct {
	db *gorm.DB
}

// NewGiftCardHandler constructs a GiftCardHandler.
func NewGiftCardHandler(db *gorm.DB) *GiftCardHandler {
	return &GiftCardHandler{db: db}
}

// List returns the whole catalog.
func (h *GiftCardHandler) List(c *fiber.Ctx) error {
	var cards []models.GiftCard
	if err := h.db.Order("brand, name").Find(&cards).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": cards})
}

// Get returns a single gift card by id.
func (h *GiftCardHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gift card id")
	}

	var card models.GiftCard
	if err := h.db.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "gift card not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": card})
}

type giftCardRequest struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	ImageURL string  `json:"image_url"`
}

// Create adds a gift card to the catalog. Admin only.
func (h *GiftCardHandler) Create(c *fiber.Ctx) error {
	var req giftCardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Brand == "" || req.Value <= 0 || req.Currency == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	card := models.GiftCard{
		Name:       req.Name,
		Brand:      req.Brand,
		Slug:       slug.Make(req.Brand + " " + req.Name),
		ValueCents: unitsToCents(req.Value),
		Currency:   req.Currency,
		ImageURL:   req.ImageURL,
	}
	if err := h.db.Create(&card).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": card})
}

// Update modifies catalog fields. Admin only.
func (h *GiftCardHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gift card id")
	}

	var req giftCardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.Value > 0 {
		updates["value_cents"] = unitsToCents(req.Value)
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	res := h.db.Model(&models.GiftCard{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "gift card not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "gift card updated"})
}

// Delete removes a gift card from the catalog. Admin only.
func (h *GiftCardHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gift card id")
	}

	if err := h.db.Delete(&models.GiftCard{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "gift card deleted"})
}
