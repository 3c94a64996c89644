package server

import (
	"errors"
	"fmt"
	"testing"

	"qr-registry/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, fiber.StatusOK},
		{fmt.Errorf("%w: missing note", reconcile.ErrIncompleteDraft), fiber.StatusUnprocessableEntity},
		{reconcile.ErrInvalidField, fiber.StatusBadRequest},
		{fmt.Errorf("%w: %w", reconcile.ErrRemoveFailed, reconcile.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: %w", reconcile.ErrLookupFailed, reconcile.ErrStoreUnavailable), fiber.StatusBadGateway},
		{fmt.Errorf("%w: %w", reconcile.ErrMediaUploadFailed, reconcile.ErrUploadFailed), fiber.StatusBadGateway},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}
