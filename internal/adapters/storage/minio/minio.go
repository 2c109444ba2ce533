package minio

import (
	"context"
	"fileupload/internal/config"
	"fileupload/internal/core/port"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

var _ port.ObjectMirror = (*Adapter)(nil)

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PutFile uploads the local file at path under key
func (a *Adapter) PutFile(ctx context.Context, key, path, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	info, err := a.client.FPutObject(ctx, a.config.BucketName, key, path, opts)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	a.logger.Debug("object mirrored",
		slog.String("fileKey", key),
		slog.Int64("size", info.Size))
	return nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// RemoveObject deletes an object; a missing object is not an error
func (a *Adapter) RemoveObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", key),
		slog.String("bucket", a.config.BucketName))
	return nil
}
