package stats

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"crowdexport/core/logger"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the stats routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/project/:id/stats/gold", h.GoldStats)
}

// GoldStats godoc
//
//	@Summary		Gold-answer statistics for a project
//	@Description	Compares task-run answers against their task's gold answers and returns the accumulated statistic.
//	@Tags			stats
//	@Produce		json
//	@Param			id		path	int		true	"Project ID"
//	@Param			stat	query	string	false	"Statistic kind: right_wrong or confusion_matrix"	default(right_wrong)
//	@Param			path	query	string	false	"Dot-separated path into the answer"
//	@Param			labels	query	string	false	"Comma-separated label set for confusion_matrix"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	map[string]interface{}
//	@Failure		404	{object}	map[string]interface{}
//	@Router			/project/{id}/stats/gold [get]
func (h *Handler) GoldStats(c *fiber.Ctx) error {
	log := logger.WithRayID(h.service.logger, c)

	projectID, err := c.ParamsInt("id")
	if err != nil || projectID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid project id"})
	}

	kind := c.Query("stat", "right_wrong")
	path := c.Query("path")
	var labels []string
	if raw := c.Query("labels"); raw != "" {
		labels = strings.Split(raw, ",")
	}

	result, err := h.service.GoldStats(c.Context(), projectID, kind, path, labels)
	if err != nil {
		if errors.Is(err, ErrUnknownStatistic) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		log.Error("Failed to compute gold statistics", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(result)
}
