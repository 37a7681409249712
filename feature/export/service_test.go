package export_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"crowdexport/core/database"
	"crowdexport/core/storage"
	"crowdexport/feature/export"
	"crowdexport/feature/export/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupExportDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Project{}, &models.Task{}, &models.TaskRun{}, &models.User{})
	assert.NoError(t, err)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, db.Create(&models.Project{ID: 1, Name: "Birds", ShortName: "birds", Created: created}).Error)
	assert.NoError(t, db.Create(&models.User{
		ID: 5, Name: "jane", Fullname: "Jane Doe", Created: created,
		EmailAddr: "jane@example.com", APIKey: "key-jane", Passwd: "hash", Admin: false, Subadmin: true,
	}).Error)
	assert.NoError(t, db.Create(&models.Task{
		ID: 10, Created: created, ProjectID: 1, State: "completed", NAnswers: 2,
		Info: models.JSONMap{"url": "http://example.com/1.jpg"},
	}).Error)
	assert.NoError(t, db.Create(&models.Task{
		ID: 11, Created: created, ProjectID: 1, State: "ongoing",
		Info: models.JSONMap{"url": "http://example.com/2.jpg", "meta": map[string]any{"source": "import"}},
	}).Error)
	assert.NoError(t, db.Create(&models.TaskRun{
		ID: 100, Created: created, ProjectID: 1, TaskID: 10, UserID: 5,
		UserIP: "127.0.0.1", FinishTime: created, Info: models.JSONMap{"answer": "sparrow"},
	}).Error)
	assert.NoError(t, db.Create(&models.TaskRun{
		ID: 101, Created: created, ProjectID: 1, TaskID: 10, UserID: 5,
		UserIP: "127.0.0.1", FinishTime: created, Info: models.JSONMap{"answer": "crow", "confidence": 0.9},
	}).Error)

	return db
}

func newExportService(t *testing.T, db *gorm.DB) *export.Service {
	t.Helper()
	up := &storage.LocalUploader{Root: t.TempDir(), BaseURL: "http://localhost:8080/uploads"}
	return export.NewService(models.NewRepository(db), up, zap.NewNop())
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestExportCSV_Tasks(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 1, export.TableTask, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	rows := parseCSV(t, result.Data)
	assert.Len(t, rows, 3)

	// Header union covers keys present in only one task.
	assert.Contains(t, result.Headers, "task__info__url")
	assert.Contains(t, result.Headers, "task__info__meta__source")
	assert.True(t, sortedStrings(result.Headers))

	// Every row aligns to the full header set.
	for _, row := range rows[1:] {
		assert.Len(t, row, len(result.Headers))
	}
}

func TestExportCSV_TaskRunsExpanded(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 1, export.TableTaskRun, true, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	assert.Contains(t, result.Headers, "taskrun__task__state")
	assert.Contains(t, result.Headers, "taskrun__user__name")
	// Allow-list: credentials never become columns.
	assert.NotContains(t, result.Headers, "taskrun__user__api_key")
	assert.NotContains(t, result.Headers, "taskrun__user__id")

	rows := parseCSV(t, result.Data)
	header := rows[0]
	userName := indexOf(header, "taskrun__user__name")
	taskState := indexOf(header, "taskrun__task__state")
	answer := indexOf(header, "taskrun__info__answer")
	confidence := indexOf(header, "taskrun__info__confidence")

	assert.Equal(t, "jane", rows[1][userName])
	assert.Equal(t, "completed", rows[1][taskState])
	assert.Equal(t, "sparrow", rows[1][answer])
	// First run has no confidence key: empty cell, not an error.
	assert.Equal(t, "", rows[1][confidence])
	assert.Equal(t, "0.9", rows[2][confidence])
}

func TestExportCSV_TaskRunsNotExpanded(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 1, export.TableTaskRun, false, nil)
	assert.NoError(t, err)
	assert.NotContains(t, result.Headers, "taskrun__user__name")
	assert.NotContains(t, result.Headers, "taskrun__task")
	assert.Contains(t, result.Headers, "taskrun__task_id")
}

func TestExportCSV_Browse(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 1, export.TableTaskRun, true, &models.Filters{State: "completed"})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	// Row-derived exports use the table name as root prefix and keep the
	// flat joined columns alongside the re-nested ones.
	assert.Contains(t, result.Headers, "task_run__id")
	assert.Contains(t, result.Headers, "task_run__task__state")
	assert.Contains(t, result.Headers, "task_run__user__name")
	assert.NotContains(t, result.Headers, "task_run__user__api_key")

	rows := parseCSV(t, result.Data)
	header := rows[0]
	state := indexOf(header, "task_run__task__state")
	assert.Equal(t, "completed", rows[1][state])
}

func TestExportCSV_BrowseFiltersOut(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 1, export.TableTaskRun, false, &models.Filters{UserID: 999})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Rows)
	assert.Empty(t, result.Headers)
}

func TestExportCSV_UnknownTable(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	_, err := svc.ExportCSV(context.Background(), 1, "project", false, nil)
	assert.ErrorIs(t, err, export.ErrUnknownTable)

	_, err = svc.ExportCSV(context.Background(), 1, "project", false, &models.Filters{State: "completed"})
	assert.ErrorIs(t, err, export.ErrUnknownTable)
}

func TestExportCSV_EmptyProject(t *testing.T) {
	db := setupExportDB(t)
	svc := newExportService(t, db)

	result, err := svc.ExportCSV(context.Background(), 42, export.TableTask, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Rows)
	assert.Empty(t, result.Headers)
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
