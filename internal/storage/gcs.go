package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"molidata/internal/config"
)

// Uploader stores one object per call. GCSUploader is the production
// implementation; tests substitute an in-memory one.
type Uploader interface {
	Upload(ctx context.Context, object string, r io.Reader) error
	Close() error
}

// GCSUploader writes objects to a Google Cloud Storage bucket
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader creates a client for cfg.Bucket. Credentials come from
// cfg.CredentialsFile when set, Application Default Credentials otherwise.
// A custom endpoint (an emulator) is used without authentication.
func NewGCSUploader(ctx context.Context, cfg config.StorageConfig) (*GCSUploader, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: cfg.Bucket}, nil
}

func clientOptions(cfg config.StorageConfig) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		return opts, nil
	}
	if cfg.CredentialsFile != "" {
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file %q: %w", cfg.CredentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}
	return opts, nil
}

// Upload copies r into the named object, replacing any previous version
func (u *GCSUploader) Upload(ctx context.Context, object string, r io.Reader) error {
	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to GCS object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close GCS object %q: %w", object, err)
	}
	return nil
}

// Close releases the underlying client
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
