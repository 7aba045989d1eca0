// Package objectstore provides attachment file storage on an S3-compatible
// backend. The FileStore interface keeps services independent of the
// concrete client; tests substitute in-memory fakes.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taskhive/taskhive-api/internal/config"
)

// FileStore stores and retrieves attachment file contents by object key.
type FileStore interface {
	// Put uploads the contents under the given key. Size may be -1 when
	// unknown, in which case the backend streams until EOF.
	Put(ctx context.Context, key string, contents io.Reader, size int64, contentType string) error

	// Get opens the object stored under the given key. The caller must
	// close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, key string) error
}

// MinioFileStore implements FileStore against MinIO or any S3-compatible
// endpoint.
type MinioFileStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioFileStore creates a FileStore for the configured endpoint and
// ensures the bucket exists.
func NewMinioFileStore(cfg config.ObjectStoreConfig, logger *slog.Logger) (*MinioFileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("object store bucket created", slog.String("bucket", cfg.Bucket))
	}

	logger.Info("object store initialized",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket))

	return &MinioFileStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With(slog.String("component", "object_store")),
	}, nil
}

// Ensure MinioFileStore implements FileStore
var _ FileStore = (*MinioFileStore)(nil)

// Put implements FileStore.Put
func (s *MinioFileStore) Put(ctx context.Context, key string, contents io.Reader, size int64, contentType string) error {
	key = normalizeKey(key)

	_, err := s.client.PutObject(ctx, s.bucket, key, contents, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Debug("file uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType))
	return nil
}

// Get implements FileStore.Get
func (s *MinioFileStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, normalizeKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return obj, nil
}

// Delete implements FileStore.Delete
func (s *MinioFileStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, normalizeKey(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func normalizeKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	return strings.ReplaceAll(key, "\\", "/")
}
