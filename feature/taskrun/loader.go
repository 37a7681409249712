package taskrun

import (
	"crowdexport/core/server"
	"crowdexport/core/storage"
	"crowdexport/feature/export/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the task-run feature.
func NewFeature(db *gorm.DB, up storage.Uploader, cfg server.Config, logger *zap.Logger) *Feature {
	svc := NewService(models.NewRepository(db), up, cfg, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "taskrun"
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
