package models_test

import (
	"testing"
	"time"

	"crowdexport/feature/export/models"

	"github.com/stretchr/testify/assert"
)

func TestTaskDictize(t *testing.T) {
	task := models.Task{
		ID:        10,
		Created:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		ProjectID: 1,
		State:     "completed",
		Info:      models.JSONMap{"url": "http://example.com/1.jpg"},
	}

	d := task.Dictize()
	assert.Equal(t, 10, d["id"])
	assert.Equal(t, "2024-03-01T12:00:00Z", d["created"])
	assert.Equal(t, map[string]any{"url": "http://example.com/1.jpg"}, d["info"])
}

func TestTaskRunDictize_NoRelations(t *testing.T) {
	run := models.TaskRun{ID: 100, TaskID: 10, UserID: 5}
	d := run.Dictize()
	assert.Equal(t, 100, d["id"])
	assert.NotContains(t, d, "task")
	assert.NotContains(t, d, "user")
}

func TestJSONMapScan(t *testing.T) {
	var m models.JSONMap

	assert.NoError(t, m.Scan([]byte(`{"a":{"b":1}}`)))
	nested, ok := m["a"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, float64(1), nested["b"])

	assert.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	assert.Error(t, m.Scan(42))
}
