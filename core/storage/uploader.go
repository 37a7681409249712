package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Uploader stores content under hierarchical keys and hands back access URLs.
// Keys use forward slashes regardless of backend (e.g. "12/34/5/answer.json").
type Uploader interface {
	// Upload stores the content at key and returns its access URL.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the external access URL for a key without uploading.
	URL(key string) string
	// FilePath returns the on-disk location for a key and true when the
	// backend serves files directly; remote backends return false.
	FilePath(key string) (string, bool)
}

// NewUploader builds the uploader selected by cfg.Backend. The minio client
// is only required for the s3 backend and may be nil otherwise.
func NewUploader(cfg Config, client Client) (Uploader, error) {
	switch cfg.Backend {
	case BackendLocal:
		return &LocalUploader{Root: cfg.LocalRoot, BaseURL: strings.TrimSuffix(cfg.BaseURL, "/")}, nil
	case BackendS3:
		if client == nil {
			return nil, fmt.Errorf("s3 backend requires a storage client")
		}
		host := strings.TrimPrefix(cfg.Endpoint, "http://")
		host = strings.TrimPrefix(host, "https://")
		return &S3Uploader{Client: client, Bucket: cfg.Bucket, Host: host}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// LocalUploader stores files on the local filesystem under Root.
type LocalUploader struct {
	Root    string
	BaseURL string
}

func (u *LocalUploader) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(u.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return u.URL(key), nil
}

func (u *LocalUploader) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(u.Root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (u *LocalUploader) URL(key string) string {
	return u.BaseURL + "/" + key
}

func (u *LocalUploader) FilePath(key string) (string, bool) {
	return filepath.Join(u.Root, filepath.FromSlash(key)), true
}

// S3Uploader stores files in an object storage bucket through the minio client.
type S3Uploader struct {
	Client Client
	Bucket string
	Host   string
}

func (u *S3Uploader) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := u.Client.PutObject(ctx, u.Bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return u.URL(key), nil
}

func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	if err := u.Client.RemoveObject(ctx, u.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (u *S3Uploader) URL(key string) string {
	return fmt.Sprintf("https://%s/%s/%s", u.Host, u.Bucket, key)
}

func (u *S3Uploader) FilePath(key string) (string, bool) {
	return "", false
}
