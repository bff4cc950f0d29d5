package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/config"
	"github.com/example/giftvault/internal/middleware"
	"github.com/example/giftvault/internal/models"
	"github.com/example/giftvault/internal/services"
	"github.com/example/giftvault/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db        *gorm.DB
	cfg       *config.Config
	referrals *services.ReferralService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, referrals *services.ReferralService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, referrals: referrals}
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ReferredBy string `json:"referred_by"`
}

// Register creates a new user account, generates their referral code, and
// records the referral edge when a valid referrer code was supplied. An
// unknown referrer code is dropped silently rather than failing registration.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	referralCode, err := h.uniqueReferralCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate referral code")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		ReferralCode: referralCode,
	}

	if req.ReferredBy != "" {
		var referrer models.User
		if err := h.db.Where("referral_code = ?", req.ReferredBy).First(&referrer).Error; err == nil {
			user.ReferredBy = &req.ReferredBy
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	if user.ReferredBy != nil {
		if _, err := h.referrals.RegisterEdge(c.UserContext(), *user.ReferredBy, user.ID); err != nil {
			return err
		}
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"referral_code": user.ReferralCode,
		},
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"referral_code": user.ReferralCode,
			"balance":       centsToUnits(user.BalanceCents),
		},
		"token": token,
	})
}

// Me returns the authenticated user's account summary.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var referredCount int64
	if err := h.db.Model(&models.Referral{}).
		Where("referrer_code = ?", user.ReferralCode).
		Count(&referredCount).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                user.ID,
			"name":              user.Name,
			"email":             user.Email,
			"role":              user.Role,
			"balance":           centsToUnits(user.BalanceCents),
			"referral_code":     user.ReferralCode,
			"referred_count":    referredCount,
			"referral_earnings": centsToUnits(user.ReferralEarningsCents),
		},
	})
}

// uniqueReferralCode generates codes until one is free. Collisions are rare
// enough that a bounded retry loop is plenty.
func (h *AuthHandler) uniqueReferralCode() (string, error) {
	for i := 0; i < 10; i++ {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := h.db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique referral code")
}
