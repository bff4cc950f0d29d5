package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/middleware"
	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/services"
	"github.com/example/giftvault/internal/utils"
)

// RedemptionHandler manages redemption submission and admin review.
type RedemptionHandler struct {
	db    *gorm.DB
	svc   *services.RedemptionService
	blobs services.BlobStore
}

// NewRedemptionHandler constructs a RedemptionHandler.
func NewRedemptionHandler(db *gorm.DB, svc *services.RedemptionService, blobs services.BlobStore) *RedemptionHandler {
	return &RedemptionHandler{db: db, svc: svc, blobs: blobs}
}

// Submit accepts a multipart form with the proof image, gift card id and
// claimed amount. The image upload must succeed before any record is created;
// if the record cannot be persisted afterwards the uploaded blob is removed.
func (h *RedemptionHandler) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if h.blobs == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "image storage unavailable")
	}

	giftCardID, err := uuid.Parse(c.FormValue("gift_card_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gift_card_id")
	}

	amount, err := strconv.ParseFloat(c.FormValue("amount", "0"), 64)
	if err != nil || amount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read image")
	}
	defer file.Close()

	proof, err := h.blobs.UploadProof(c.UserContext(), file)
	if err != nil {
		logrus.WithError(err).Error("proof image upload failed")
		return fiber.NewError(fiber.StatusBadGateway, "failed to store proof image")
	}

	redemption, err := h.svc.Submit(c.UserContext(), userID, giftCardID, unitsToCents(amount), proof.URL, proof.PublicID)
	if err != nil {
		if destroyErr := h.blobs.Destroy(c.UserContext(), proof.PublicID); destroyErr != nil {
			logrus.WithError(destroyErr).Warn("failed to clean up orphaned proof image")
		}
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Gift card submitted for review",
		"data":    redemption,
	})
}

// ListMine returns the authenticated user's redemptions.
func (h *RedemptionHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var redemptions []models.Redemption
	if err := h.db.Preload("GiftCard").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&redemptions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": redemptions})
}

// ListAll returns all redemptions with submitter and gift card info.
// Admin only.
func (h *RedemptionHandler) ListAll(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Redemption{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var redemptions []models.Redemption
	if err := query.Preload("User").Preload("GiftCard").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&redemptions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    redemptions,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Approve resolves a pending redemption in the submitter's favor. Admin only.
func (h *RedemptionHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid redemption id")
	}

	result, err := h.svc.Approve(c.UserContext(), id)
	if err != nil {
		return serviceError(err)
	}

	resp := fiber.Map{
		"success": true,
		"message": "Redemption approved",
		"data":    result.Redemption,
		"balance": centsToUnits(result.BalanceCents),
	}
	if result.ReferralWarning != nil {
		resp["warning"] = "referral bonus could not be evaluated"
	}

	return c.JSON(resp)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject resolves a pending redemption against the submitter. Admin only.
func (h *RedemptionHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid redemption id")
	}

	var req rejectRequest
	_ = c.BodyParser(&req)

	redemption, err := h.svc.Reject(c.UserContext(), id, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Redemption rejected",
		"data":    redemption,
	})
}
