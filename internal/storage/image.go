// Package storage persists uploaded recipe images and returns the URL they
// are served from.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned for payloads that are not a supported base64
// image data URI
var ErrInvalidImage = errors.New("invalid image")

// MaxImageSize bounds decoded images
const MaxImageSize = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore saves an image under key and returns its public URL
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
}

// Key returns a fresh object key for the image under prefix
func (img Image) Key(prefix string) string {
	return path.Join(prefix, uuid.New().String()+imageExtensions[img.ContentType])
}

// DecodeDataURI parses "data:image/png;base64,...." into an Image
func DecodeDataURI(uri string) (Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return Image{}, fmt.Errorf("%w: expected a base64 data URI", ErrInvalidImage)
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, ok := imageExtensions[contentType]; !ok {
		return Image{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return Image{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxImageSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	return Image{Data: data, ContentType: contentType}, nil
}
