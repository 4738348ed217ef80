// Package images stores uploaded place and avatar images in Google
// Cloud Storage, keyed by the public URL persisted on the owning row.
package images

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/roamlist/places-backend/pkg/helpers"
)

type GCSStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket}
}

func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

func (s *GCSStore) Release(ctx context.Context, url string) error {
	if s.Client == nil || s.Bucket == "" {
		return errors.New("gcs not configured")
	}
	objectPath := helpers.ObjectPathFromURL(s.Bucket, url)
	if objectPath == "" {
		return errors.New("url outside configured bucket")
	}
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, objectPath)
}
