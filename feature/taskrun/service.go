package taskrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"crowdexport/core/server"
	"crowdexport/core/storage"
	"crowdexport/feature/export"
	"crowdexport/feature/export/models"

	"go.uber.org/zap"
)

// Field-name convention for file uploads: an info field or multipart part
// carries a file only when its name ends in "__upload_url".
const uploadSuffix = export.Delimiter + "upload_url"

// Private-instance mode wraps the whole answer into one uploaded blob.
const (
	privateAnswerFile = "answer.json"
	privateAnswerKey  = "answer_url"
)

// ErrBadUploadField signals a multipart file part whose field name violates
// the upload naming convention. This is the one failure surfaced to clients
// as a typed 400 rather than a server error.
var ErrBadUploadField = errors.New("file field does not match the upload naming convention")

// Submission is a task-run submission payload.
type Submission struct {
	ProjectID int            `json:"project_id"`
	TaskID    int            `json:"task_id"`
	Info      map[string]any `json:"info"`
}

// UploadedFile is one file part extracted from a multipart form.
type UploadedFile struct {
	Field    string
	Filename string
	Content  []byte
}

// Service handles task-run submissions and their file uploads.
type Service struct {
	repo   *models.Repository
	up     storage.Uploader
	cfg    server.Config
	logger *zap.Logger
}

// NewService creates a new task-run service.
func NewService(repo *models.Repository, up storage.Uploader, cfg server.Config, logger *zap.Logger) *Service {
	return &Service{repo: repo, up: up, cfg: cfg, logger: logger}
}

// Authenticate resolves the submitting user from an API key.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	return s.repo.GetUserByAPIKey(ctx, apiKey)
}

// Submit stores a task run. Inline file values and multipart file parts are
// uploaded to storage under <project>/<task>/<user>/<filename> and replaced
// in the info payload by their access URLs. In private mode a submission
// that carried any file has its whole info replaced by one answer blob URL.
func (s *Service) Submit(ctx context.Context, user *models.User, sub Submission, files []UploadedFile, userIP string) (*models.TaskRun, error) {
	keyPrefix := fmt.Sprintf("%d/%d/%d", sub.ProjectID, sub.TaskID, user.ID)

	hadFile := false

	for _, f := range files {
		if !strings.HasSuffix(f.Field, uploadSuffix) {
			return nil, fmt.Errorf("%w: %s", ErrBadUploadField, f.Field)
		}
		url, err := s.uploadFile(ctx, keyPrefix, f.Filename, f.Content)
		if err != nil {
			return nil, err
		}
		if sub.Info == nil {
			sub.Info = make(map[string]any)
		}
		sub.Info[f.Field] = url
		hadFile = true
	}

	for field, val := range sub.Info {
		if !strings.HasSuffix(field, uploadSuffix) {
			continue
		}
		name, content, ok := fileRef(val)
		if !ok {
			// Matches the field convention but not the inline-file
			// shape: left untouched.
			continue
		}
		url, err := s.uploadFile(ctx, keyPrefix, name, []byte(content))
		if err != nil {
			return nil, err
		}
		sub.Info[field] = url
		hadFile = true
	}

	if s.cfg.Private && hadFile {
		blob, err := json.Marshal(sub.Info)
		if err != nil {
			return nil, fmt.Errorf("failed to encode answer blob: %w", err)
		}
		url, err := s.uploadFile(ctx, keyPrefix, privateAnswerFile, blob)
		if err != nil {
			return nil, err
		}
		sub.Info = map[string]any{privateAnswerKey: url}
	}

	run := &models.TaskRun{
		ProjectID: sub.ProjectID,
		TaskID:    sub.TaskID,
		UserID:    user.ID,
		UserIP:    userIP,
		Info:      models.JSONMap(sub.Info),
	}
	if err := s.repo.SaveTaskRun(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("Task run stored",
		zap.Int("project_id", run.ProjectID),
		zap.Int("task_id", run.TaskID),
		zap.Int("user_id", run.UserID),
		zap.Bool("had_file", hadFile),
	)
	return run, nil
}

func (s *Service) uploadFile(ctx context.Context, keyPrefix, filename string, content []byte) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := keyPrefix + "/" + filename
	url, err := s.up.Upload(ctx, key, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store upload %s: %w", key, err)
	}
	return url, nil
}

// fileRef reports whether an info value has the inline-file shape
// {"filename": ..., "content": ...}.
func fileRef(val any) (string, string, bool) {
	m, ok := val.(map[string]any)
	if !ok {
		return "", "", false
	}
	name, ok := m["filename"].(string)
	if !ok {
		return "", "", false
	}
	content, ok := m["content"].(string)
	if !ok {
		return "", "", false
	}
	return name, content, true
}
