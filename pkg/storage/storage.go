package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
)

// ErrObjectNotFound the key does not exist in the bucket
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectInfo object metadata
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage object storage keyed by bucket + object key
type Storage interface {
	Bucket() string
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	// PresignedDownloadURL returns a time-limited URL that downloads the object as fileName
	PresignedDownloadURL(ctx context.Context, key, fileName string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	// Rename moves an object to a new key within the bucket
	Rename(ctx context.Context, oldKey, newKey string) error
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
}

// New builds the configured storage backend
func New(ctx context.Context, cfg *config.StorageConfig, baseURL, signingSecret string, logger *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinioStorage(ctx, cfg, logger)
	case "local":
		return NewLocalStorage(cfg.LocalDir, cfg.Bucket, baseURL, signingSecret)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
