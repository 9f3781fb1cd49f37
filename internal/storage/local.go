package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStore writes images under a directory that is served statically
type LocalStore struct {
	dir       string
	urlPrefix string
	log       zerolog.Logger
}

// NewLocalStore creates a disk-backed store rooted at dir
func NewLocalStore(dir, urlPrefix string, log zerolog.Logger) *LocalStore {
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		log:       log.With().Str("component", "local_store").Logger(),
	}
}

// Dir returns the directory images are written to
func (s *LocalStore) Dir() string { return s.dir }

// URLPrefix returns the path images are served under
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// Save writes r to dir/name and returns urlPrefix/name
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	s.log.Debug().
		Str("file", dst).
		Int64("bytes", written).
		Int64("declared_size", size).
		Msg("Image stored")

	return path.Join(s.urlPrefix, name), nil
}
