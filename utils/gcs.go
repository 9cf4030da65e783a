package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"google.golang.org/api/option"
)

// GCSStore keeps images in a Google Cloud Storage bucket. The object name is
// the image's public id.
type GCSStore struct {
	client *storage.Client
	bucket string
	folder string
}

func NewGCSStore(ctx context.Context, bucket, credentialsPath, folder string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}
	var opts []option.ClientOption
	if credentialsPath != "" {
		if !filepath.IsAbs(credentialsPath) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			credentialsPath = filepath.Join(wd, credentialsPath)
		}
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, credentialsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, folder: folder}, nil
}

func (s *GCSStore) Upload(ctx context.Context, data []byte, contentType, ext string) (models.Image, error) {
	objectName := ObjectName(s.folder, ext)

	w := s.client.Bucket(s.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return models.Image{}, fmt.Errorf("upload write: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.Image{}, fmt.Errorf("upload close: %w", err)
	}

	return models.Image{
		URL:      fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName),
		PublicID: objectName,
	}, nil
}

// Destroy removes an object. A missing object is not an error.
func (s *GCSStore) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(publicID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
