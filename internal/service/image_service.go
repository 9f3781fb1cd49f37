package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/storage"
	"github.com/rs/zerolog"
)

// AllowedImageExtensions are matched case-insensitively against the upload name
var AllowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Upload validation messages
const (
	MsgNoImage          = "No image provided"
	MsgNoImageSelected  = "No image selected"
	MsgInvalidImageType = "Invalid file type. Allowed: PNG, JPG, JPEG, GIF, WEBP"
)

// imageService is the concrete implementation of ImageService
type imageService struct {
	store   storage.ImageStore
	authz   *authz.Authorizer
	maxSize int64
	log     zerolog.Logger
}

func newImageService(deps Deps, maxSize int64, log zerolog.Logger) *imageService {
	return &imageService{
		store:   deps.Images,
		authz:   deps.Authorizer,
		maxSize: maxSize,
		log:     log.With().Str("service", "image").Logger(),
	}
}

// imageExt returns the lowercased extension after the last dot, or "" when
// the name is not an allowed image.
func imageExt(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	ext := strings.ToLower(filename[i+1:])
	if !AllowedImageExtensions[ext] {
		return ""
	}
	return ext
}

// Upload checks the file name and size, then stores it under a random name
func (s *imageService) Upload(ctx context.Context, actor authz.Actor, filename string, file io.ReadSeeker) (*models.UploadResult, error) {
	if err := s.authz.Require(actor, authz.ArticleUploadImage); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errs.NewBadRequestError(MsgNoImage)
	}
	if filename == "" {
		return nil, errs.NewBadRequestError(MsgNoImageSelected)
	}
	ext := imageExt(filename)
	if ext == "" {
		return nil, errs.NewBadRequestError(MsgInvalidImageType)
	}

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to measure upload")
		return nil, errs.NewInternalError("Failed to read image").WithCause(err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.log.Error().Err(err).Msg("Failed to rewind upload")
		return nil, errs.NewInternalError("Failed to read image").WithCause(err)
	}
	if size > s.maxSize {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("File too large. Maximum size is %dMB", s.maxSize/(1024*1024)))
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	url, err := s.store.Save(ctx, name, file, size)
	if err != nil {
		s.log.Error().Err(err).Str("filename", name).Msg("Failed to store image")
		return nil, errs.NewInternalError("Failed to save image").WithCause(err)
	}

	s.log.Info().
		Int64("actor_id", actor.ID).
		Str("filename", name).
		Int64("size", size).
		Msg("Image uploaded")

	return &models.UploadResult{Success: true, ImageURL: url, Filename: name}, nil
}
