package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
)

// ImageStore is the external image host.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType, ext string) (models.Image, error)
	Destroy(ctx context.Context, publicID string) error
}

// evict removes images from the store. Failures are logged and swallowed:
// the database write they follow has already committed.
func evict(ctx context.Context, store ImageStore, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := store.Destroy(context.WithoutCancel(ctx), id); err != nil {
			log.Printf("image eviction failed for %s: %v", id, err)
		}
	}
}

type ImageService struct {
	store     ImageStore
	validator *utils.ImageValidator
}

func NewImageService(store ImageStore, validator *utils.ImageValidator) *ImageService {
	return &ImageService{store: store, validator: validator}
}

// Upload validates raw image bytes and stores them.
func (s *ImageService) Upload(ctx context.Context, data []byte) (models.Image, error) {
	contentType, err := s.validator.Validate(data)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidImage) {
			return models.Image{}, invalid("file", err.Error())
		}
		return models.Image{}, err
	}
	img, err := s.store.Upload(ctx, data, contentType, s.validator.Extension(contentType))
	if err != nil {
		return models.Image{}, fmt.Errorf("upload image: %w", err)
	}
	return img, nil
}

// UploadFile stores a multipart upload.
func (s *ImageService) UploadFile(ctx context.Context, fh *multipart.FileHeader) (models.Image, error) {
	data, err := s.validator.ReadFileHeader(fh)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidImage) {
			return models.Image{}, invalid("file", err.Error())
		}
		return models.Image{}, err
	}
	return s.Upload(ctx, data)
}

// UploadEncoded stores an image sent as a data URL or bare base64.
func (s *ImageService) UploadEncoded(ctx context.Context, encoded string) (models.Image, error) {
	data, err := utils.DecodeDataURL(encoded)
	if err != nil {
		return models.Image{}, invalid("file", err.Error())
	}
	return s.Upload(ctx, data)
}
