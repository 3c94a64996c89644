package records

import (
	"qr-registry/core/listing"
	"qr-registry/core/reconcile"
	"qr-registry/feature/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the records feature. Drafts may only reference local
// media that was uploaded into spool.
func NewFeature(engine *reconcile.Engine, cache *listing.Cache, spool *media.Spool, recentLimit int, logger *zap.Logger) *Feature {
	svc := NewService(engine, cache, recentLimit, logger)
	return &Feature{service: svc, handler: NewHandler(svc, spool)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "records"
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
