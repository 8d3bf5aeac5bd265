package streets

import (
	"street-sync/core/feed"
	"street-sync/core/snapshot"
	"street-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new streets feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, feedCfg feed.Config, snapCfg snapshot.Config) *Feature {
	svc := NewService(client, bucket, logger, db, feedCfg, snapCfg)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "streets"
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

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
