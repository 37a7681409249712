package taskrun

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"crowdexport/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for task-run submissions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the task-run routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Post("/taskrun", h.HandleCreate)
}

// HandleCreate accepts a task-run submission.
// @Summary Submit a task run
// @Description Accepts either a JSON body, or a multipart form with a request_json field plus file parts named per the *__upload_url convention. Uploaded files are stored and replaced by their access URLs.
// @Tags taskrun
// @Accept json,mpfd
// @Produce json
// @Param api_key query string true "Submitting user's API key"
// @Success 200 {object} models.TaskRun "Stored task run"
// @Failure 400 {object} map[string]string "Malformed payload or bad file field name"
// @Failure 401 {object} map[string]string "Unknown API key"
// @Failure 500 {object} map[string]string "Submission failed"
// @Router /api/taskrun [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	user, err := h.service.Authenticate(c.Context(), c.Query("api_key"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown api key"})
	}

	var (
		sub   Submission
		files []UploadedFile
	)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		sub, files, err = parseMultipart(c)
	} else {
		err = json.Unmarshal(c.Body(), &sub)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed submission"})
	}

	run, err := h.service.Submit(c.Context(), user, sub, files, c.IP())
	if errors.Is(err, ErrBadUploadField) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Task run submission failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "submission failed"})
	}

	return c.JSON(run)
}

// parseMultipart extracts the JSON payload from the request_json field and
// reads every file part into memory.
func parseMultipart(c *fiber.Ctx) (Submission, []UploadedFile, error) {
	var sub Submission

	form, err := c.MultipartForm()
	if err != nil {
		return sub, nil, err
	}

	payload := form.Value["request_json"]
	if len(payload) == 0 {
		return sub, nil, errors.New("missing request_json field")
	}
	if err := json.Unmarshal([]byte(payload[0]), &sub); err != nil {
		return sub, nil, err
	}

	var files []UploadedFile
	for field, headers := range form.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return sub, nil, err
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return sub, nil, err
			}
			files = append(files, UploadedFile{Field: field, Filename: fh.Filename, Content: content})
		}
	}
	return sub, files, nil
}
