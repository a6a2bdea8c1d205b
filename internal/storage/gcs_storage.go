package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GCSStorage checks temporary upload objects in a Google Cloud Storage
// bucket. Only metadata is fetched; object bytes are never transferred.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	logger *zap.Logger
}

// NewGCSStorage creates a GCSStorage for the given bucket. When
// credentialsFile is empty, application default credentials are used.
func NewGCSStorage(ctx context.Context, bucket, credentialsFile string, logger *zap.Logger) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Exists reports whether an object is present at the given path. Every
// backend error, not only ErrObjectNotExist, reads as absent so callers fail
// closed.
func (s *GCSStorage) Exists(ctx context.Context, path string) bool {
	_, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if err != nil {
		if !errors.Is(err, gcs.ErrObjectNotExist) {
			s.logger.Warn("Existence check against GCS failed",
				zap.String("bucket", s.bucket),
				zap.String("path", path),
				zap.Error(err))
		}
		return false
	}
	return true
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
