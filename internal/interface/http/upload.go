package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roamlist/places-backend/internal/application"
)

// uploadImage reads the multipart "image" field and stores it under
// prefix/<uuid><ext>, returning the public URL to persist.
func uploadImage(c *gin.Context, store application.ImageStore, prefix string) (string, error) {
	if store == nil {
		return "", errors.New("image store not configured")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	objectPath := filepath.ToSlash(filepath.Join(prefix, uuid.NewString()+ext))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Upload(c.Request.Context(), objectPath, contentType, f)
}
