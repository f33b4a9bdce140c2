package storage

import (
	"io"
	"log/slog"

	cfg "github.com/fitbloom/fitbloom/internal/config"
)

// Storage persists uploaded files and tells clients where to fetch them.
type Storage interface {
	Save(path string, file io.Reader, contentType string) error
	Delete(path string) error
	URL(path string) string
}

// New picks S3 when a bucket is configured and the local upload directory otherwise.
func New(c *cfg.Config) (Storage, error) {
	if c.S3Bucket == "" {
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir, c.AppURL+"/uploads")
	}

	slog.Info("initializing S3 storage", "bucket", c.S3Bucket, "region", c.S3Region, "endpoint", c.S3Endpoint)
	return NewS3Storage(S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
		PublicURL: c.S3PublicURL,
	})
}
