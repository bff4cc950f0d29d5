package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/middleware"
	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/services"
	"github.com/example/giftvault/internal/utils"
)

// WithdrawalHandler manages withdrawal submission and admin review.
type WithdrawalHandler struct {
	db  *gorm.DB
	svc *services.WithdrawalService
}

// NewWithdrawalHandler constructs a WithdrawalHandler.
func NewWithdrawalHandler(db *gorm.DB, svc *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{db: db, svc: svc}
}

type submitWithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"account_number"`
	BankName      string  `json:"bank_name"`
	AccountName   string  `json:"account_name"`
}

// Submit reserves balance and creates a pending withdrawal.
func (h *WithdrawalHandler) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req submitWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}
	if req.AccountNumber == "" || req.BankName == "" || req.AccountName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing bank details")
	}

	withdrawal, remainingCents, err := h.svc.Submit(c.UserContext(), userID,
		unitsToCents(req.Amount), req.AccountNumber, req.BankName, req.AccountName)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Withdrawal request submitted successfully",
		"withdrawal":        withdrawal,
		"remaining_balance": centsToUnits(remainingCents),
	})
}

// ListMine returns the authenticated user's withdrawal history.
func (h *WithdrawalHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var withdrawals []models.Withdrawal
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&withdrawals).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": withdrawals})
}

// ListAll returns all withdrawal requests. Admin only.
func (h *WithdrawalHandler) ListAll(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Withdrawal{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	type withdrawalRow struct {
		models.Withdrawal
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}
	var rows []withdrawalRow
	if err := query.
		Select("withdrawals.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = withdrawals.user_id").
		Order("withdrawals.created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type withdrawalStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus approves or rejects a pending withdrawal. Admin only.
func (h *WithdrawalHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid withdrawal id")
	}

	var req withdrawalStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var (
		withdrawal     *models.Withdrawal
		remainingCents int64
	)
	switch req.Status {
	case models.WithdrawalStatusApproved:
		withdrawal, remainingCents, err = h.svc.Approve(c.UserContext(), id)
	case models.WithdrawalStatusRejected:
		withdrawal, remainingCents, err = h.svc.Reject(c.UserContext(), id)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "status must be approved or rejected")
	}
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Withdrawal " + req.Status + " successfully",
		"withdrawal":        withdrawal,
		"remaining_balance": centsToUnits(remainingCents),
	})
}
