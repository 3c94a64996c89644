package server

import (
	"errors"

	"qr-registry/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an engine error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, reconcile.ErrIncompleteDraft):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrInvalidField):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrLookupFailed),
		errors.Is(err, reconcile.ErrStoreUnavailable),
		errors.Is(err, reconcile.ErrUploadFailed),
		errors.Is(err, reconcile.ErrMediaUploadFailed),
		errors.Is(err, reconcile.ErrRemoveFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a JSON error body with the mapped status.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
