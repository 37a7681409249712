package export

import (
	"errors"

	"crowdexport/core/logger"
	"crowdexport/feature/export/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for project exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the export routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/project/:id")
	group.Get("/export", h.HandleExport)
}

// HandleExport builds a project export archive and serves it.
// @Summary Export project records
// @Description Builds the CSV export for a table of a project, packages it as ZIP and serves it (local storage) or redirects to it (object storage).
// @Tags export
// @Produce application/octet-stream
// @Param id path int true "Project ID"
// @Param table query string false "Table to export (task, task_run)" default(task)
// @Param expanded query bool false "Merge related task/user objects into task runs"
// @Param state query string false "Filter: task state"
// @Param user_id query int false "Filter: submitting user id"
// @Success 200 {file} binary "ZIP archive"
// @Failure 400 {object} map[string]string "Unknown table"
// @Failure 404 {object} map[string]string "Unknown project"
// @Failure 500 {object} map[string]string "Export failed"
// @Router /project/{id}/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid project id"})
	}

	table := c.Query("table", TableTask)
	expanded := c.QueryBool("expanded", false)

	var filters *models.Filters
	if f := (models.Filters{State: c.Query("state"), UserID: c.QueryInt("user_id", 0)}); !f.IsZero() {
		filters = &f
	}

	project, err := h.service.repo.GetProject(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	key, err := h.service.ExportZip(c.Context(), *project, table, expanded, filters)
	if errors.Is(err, ErrUnknownTable) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	// Local uploads are served straight from disk; remote ones by redirect.
	if path, direct := h.service.up.FilePath(key); direct {
		return c.Download(path, DownloadName(*project, table, expanded))
	}
	return c.Redirect(h.service.up.URL(key), fiber.StatusFound)
}
