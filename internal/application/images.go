package application

import (
	"context"
	"io"
)

// ImageStore abstracts the object storage holding uploaded images.
// Upload returns the public URL stored on the owning record; Release
// is best-effort cleanup invoked after deletes and failed requests.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Release(ctx context.Context, url string) error
}
