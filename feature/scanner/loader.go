package scanner

import (
	"qr-registry/core/session"
	"qr-registry/feature/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the scanner feature.
func NewFeature(sessions *session.Manager, spool *media.Spool, logger *zap.Logger) *Feature {
	svc := NewService(sessions, spool, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the feature's service, used to run the session sweeper.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "scanner"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
