package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// ImageStore persists uploaded images and returns the URL they are served at
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
}

// contentType guesses the MIME type from the file extension
func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	switch ext {
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}
