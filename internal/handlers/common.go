package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/giftvault/internal/repository"
)

// centsToUnits converts internal cents to currency units for responses.
func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// unitsToCents converts a request amount in currency units to cents.
func unitsToCents(units float64) int64 {
	return int64(units*100 + 0.5)
}

// serviceError maps workflow errors onto HTTP statuses. Anything unknown
// bubbles up to the fiber error handler as a 500 without leaking internals.
func serviceError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return fiber.NewError(fiber.StatusConflict, "already processed")
	case errors.Is(err, repository.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient balance")
	case errors.Is(err, repository.ErrInvalidReference):
		return fiber.NewError(fiber.StatusBadRequest, "referenced record not found")
	case errors.Is(err, repository.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	default:
		return err
	}
}
