package taskrun_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"crowdexport/core/database"
	"crowdexport/core/server"
	"crowdexport/core/storage"
	"crowdexport/core/storage/mocks"
	"crowdexport/feature/export/models"
	"crowdexport/feature/taskrun"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testHost   = "s3.storage.com"
	testBucket = "test_bucket"
	testAPIKey = "key-jane"
)

type fixture struct {
	app  *fiber.App
	mock *mocks.Client
}

func setupTaskrunApp(t *testing.T, private bool) *fixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Project{}, &models.Task{}, &models.TaskRun{}, &models.User{}))

	assert.NoError(t, db.Create(&models.Project{ID: 1, Name: "Birds", ShortName: "birds"}).Error)
	assert.NoError(t, db.Create(&models.User{ID: 5, Name: "jane", APIKey: testAPIKey}).Error)
	assert.NoError(t, db.Create(&models.Task{ID: 10, ProjectID: 1, State: "ongoing"}).Error)

	mockClient := new(mocks.Client)
	up := &storage.S3Uploader{Client: mockClient, Bucket: testBucket, Host: testHost}

	cfg := server.Config{Port: "8080", Private: private}
	f := taskrun.NewFeature(db, up, cfg, zap.NewNop())

	app := fiber.New()
	assert.NoError(t, f.Load(app))

	return &fixture{app: app, mock: mockClient}
}

func postJSON(t *testing.T, app *fiber.App, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/taskrun?api_key="+testAPIKey, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	resp, err := app.Test(req, 5000)
	assert.NoError(t, err)
	rec.Code = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	rec.Body = bytes.NewBuffer(raw)
	return rec
}

func decodeRun(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestTaskrunEmptyInfo(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	rec := postJSON(t, fx.app, map[string]any{
		"project_id": 1,
		"task_id":    10,
		"info":       nil,
	})
	assert.Equal(t, 200, rec.Code)
	fx.mock.AssertNotCalled(t, "PutObject")
}

func TestTaskrunWithUpload(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/hello.txt",
		mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	rec := postJSON(t, fx.app, map[string]any{
		"project_id": 1,
		"task_id":    10,
		"info": map[string]any{
			"test__upload_url": map[string]any{
				"filename": "hello.txt",
				"content":  "abc",
			},
		},
	})
	assert.Equal(t, 200, rec.Code)
	fx.mock.AssertExpectations(t)

	run := decodeRun(t, rec.Body.Bytes())
	info := run["info"].(map[string]any)
	assert.Equal(t, "https://s3.storage.com/test_bucket/1/10/5/hello.txt", info["test__upload_url"])
}

func TestTaskrunWithNoUpload(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	rec := postJSON(t, fx.app, map[string]any{
		"project_id": 1,
		"task_id":    10,
		"info": map[string]any{
			"test__upload_url": map[string]any{
				"test": "not a file",
			},
		},
	})
	assert.Equal(t, 200, rec.Code)
	fx.mock.AssertNotCalled(t, "PutObject")

	run := decodeRun(t, rec.Body.Bytes())
	info := run["info"].(map[string]any)
	ref := info["test__upload_url"].(map[string]any)
	assert.Equal(t, "not a file", ref["test"])
}

func multipartBody(t *testing.T, fileField string) (*bytes.Buffer, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"project_id": 1,
		"task_id":    10,
		"info":       map[string]any{"field": "value"},
	})
	assert.NoError(t, err)

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	assert.NoError(t, w.WriteField("request_json", string(payload)))
	fw, err := w.CreateFormFile(fileField, "hello.txt")
	assert.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader("Hi there"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	return buf, w.FormDataContentType()
}

func TestTaskrunMultipart(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/hello.txt",
		mock.Anything, int64(8), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	body, contentType := multipartBody(t, "test__upload_url")
	req := httptest.NewRequest("POST", "/api/taskrun?api_key="+testAPIKey, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := fx.app.Test(req, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	fx.mock.AssertExpectations(t)

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	run := decodeRun(t, raw)
	info := run["info"].(map[string]any)
	assert.Equal(t, "https://s3.storage.com/test_bucket/1/10/5/hello.txt", info["test__upload_url"])
	assert.Equal(t, "value", info["field"])
}

func TestTaskrunMultipartError(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	body, contentType := multipartBody(t, "test")
	req := httptest.NewRequest("POST", "/api/taskrun?api_key="+testAPIKey, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := fx.app.Test(req, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	fx.mock.AssertNotCalled(t, "PutObject")
}

func TestTaskrunUnknownAPIKey(t *testing.T) {
	fx := setupTaskrunApp(t, false)

	data, _ := json.Marshal(map[string]any{"project_id": 1, "task_id": 10})
	req := httptest.NewRequest("POST", "/api/taskrun?api_key=wrong", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.app.Test(req, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestTaskrunPrivateWithUpload(t *testing.T) {
	fx := setupTaskrunApp(t, true)

	var answerBlob []byte
	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/hello.txt",
		mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/answer.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			r := args.Get(3).(io.Reader)
			answerBlob, _ = io.ReadAll(r)
		}).
		Return(minio.UploadInfo{}, nil)

	rec := postJSON(t, fx.app, map[string]any{
		"project_id": 1,
		"task_id":    10,
		"info": map[string]any{
			"test__upload_url": map[string]any{
				"filename": "hello.txt",
				"content":  "abc",
			},
			"another_field": 42,
		},
	})
	assert.Equal(t, 200, rec.Code)
	fx.mock.AssertExpectations(t)

	// The response carries only the answer blob URL.
	run := decodeRun(t, rec.Body.Bytes())
	info := run["info"].(map[string]any)
	assert.Len(t, info, 1)
	assert.Equal(t, "https://s3.storage.com/test_bucket/1/10/5/answer.json", info["answer_url"])

	// The blob itself holds the substituted file URL plus the other fields.
	var blob map[string]any
	assert.NoError(t, json.Unmarshal(answerBlob, &blob))
	assert.Equal(t, "https://s3.storage.com/test_bucket/1/10/5/hello.txt", blob["test__upload_url"])
	assert.Equal(t, float64(42), blob["another_field"])
}

func TestTaskrunPrivateMultipart(t *testing.T) {
	fx := setupTaskrunApp(t, true)

	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/hello.txt",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	fx.mock.On("PutObject", mock.Anything, testBucket, "1/10/5/answer.json",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	body, contentType := multipartBody(t, "test__upload_url")
	req := httptest.NewRequest("POST", "/api/taskrun?api_key="+testAPIKey, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := fx.app.Test(req, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	fx.mock.AssertExpectations(t)

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	run := decodeRun(t, raw)
	info := run["info"].(map[string]any)
	assert.Equal(t, "https://s3.storage.com/test_bucket/1/10/5/answer.json", info["answer_url"])
}
