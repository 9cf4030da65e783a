package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image")

// ImageValidator checks uploads by size and by sniffed content type.
type ImageValidator struct {
	allowedMime map[string]string
	maxSize     int64
}

func NewImageValidator(maxSize int64) *ImageValidator {
	return &ImageValidator{
		allowedMime: map[string]string{
			"image/jpeg": ".jpg",
			"image/png":  ".png",
			"image/gif":  ".gif",
			"image/webp": ".webp",
		},
		maxSize: maxSize,
	}
}

// Validate returns the detected content type of data.
func (v *ImageValidator) Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if int64(len(data)) > v.maxSize {
		return "", fmt.Errorf("%w: file too large (max %d MB)", ErrInvalidImage, v.maxSize>>20)
	}
	detected := strings.ToLower(http.DetectContentType(data))
	if _, ok := v.allowedMime[detected]; !ok {
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, detected)
	}
	return detected, nil
}

// Extension is the file extension used for objects of the given type.
func (v *ImageValidator) Extension(contentType string) string {
	if ext, ok := v.allowedMime[contentType]; ok {
		return ext
	}
	return ".bin"
}

// ReadFileHeader loads a multipart upload, refusing anything over the limit.
func (v *ImageValidator) ReadFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > v.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %d MB)", ErrInvalidImage, v.maxSize>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, v.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// DecodeDataURL accepts either a data URL ("data:image/png;base64,...") or
// bare base64 and returns the decoded bytes.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		s = s[comma+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
	}
	return data, nil
}

// ObjectName builds a unique object key under folder.
func ObjectName(folder, ext string) string {
	return path.Join(folder, uuid.NewString()+ext)
}
