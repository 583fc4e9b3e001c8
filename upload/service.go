package upload

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"storefront/apperror"
	"storefront/config"
)

const (
	// MaxFileSize is the largest accepted image
	MaxFileSize = 5 * 1024 * 1024
	keyPrefix   = "products/"
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var whitespace = regexp.MustCompile(`\s+`)

// Service stores product images in a public bucket
type Service struct {
	client   ObjectAPI
	endpoint string
	bucket   string
	now      func() time.Time
}

// NewService creates the upload service. A nil client leaves uploads
// unavailable until storage is configured.
func NewService(client ObjectAPI, cfg config.StorageConfig) *Service {
	return &Service{
		client:   client,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		bucket:   cfg.Bucket,
		now:      time.Now,
	}
}

// Validate checks the MIME type first, then the size
func Validate(mimeType string, size int64) error {
	if !allowedTypes[normalizeType(mimeType)] {
		return apperror.Validation("Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed.").
			WithCode(apperror.CodeInvalidFileType)
	}
	if size > MaxFileSize {
		return apperror.Validation("File size too large. Maximum size is 5MB.").
			WithCode(apperror.CodeFileTooLarge)
	}
	return nil
}

func normalizeType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// SanitizeFileName drops any directory part and replaces whitespace runs with hyphens
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "-")
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}

// ObjectKey returns products/{unixMillis}-{sanitizedName}
func ObjectKey(now time.Time, fileName string) string {
	return fmt.Sprintf("%s%d-%s", keyPrefix, now.UnixMilli(), SanitizeFileName(fileName))
}

// PublicURL is the address a stored key is served from
func (s *Service) PublicURL(key string) string {
	return s.endpoint + "/" + s.bucket + "/" + key
}

// Upload validates and stores an image, returning its public URL
func (s *Service) Upload(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if err := Validate(mimeType, int64(len(data))); err != nil {
		return "", err
	}
	if s.client == nil || s.bucket == "" || s.endpoint == "" {
		return "", apperror.ServiceUnavailable("Image storage is not configured", nil)
	}

	key := ObjectKey(s.now(), fileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(normalizeType(mimeType)),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		zap.S().Errorf("Error uploading %s to object storage: %v", key, err)
		return "", apperror.Gateway("Failed to upload image to cloud storage", err.Error(), err)
	}

	zap.S().Infow("Image uploaded", "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

// KeyFromURL recovers the object key from a public URL
func (s *Service) KeyFromURL(rawURL string) (string, error) {
	prefix := s.PublicURL("")
	if strings.HasPrefix(rawURL, prefix) {
		key := strings.TrimPrefix(rawURL, prefix)
		if strings.HasPrefix(key, keyPrefix) && len(key) > len(keyPrefix) {
			return key, nil
		}
	}
	// Fall back to the trailing products/<file> segment
	parts := strings.Split(strings.TrimRight(rawURL, "/"), "/")
	if len(parts) >= 2 && parts[len(parts)-2]+"/" == keyPrefix {
		return keyPrefix + parts[len(parts)-1], nil
	}
	return "", apperror.Validation("URL does not reference a product image")
}

// Delete removes a previously uploaded image given its public URL
func (s *Service) Delete(ctx context.Context, rawURL string) error {
	key, err := s.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	if s.client == nil || s.bucket == "" {
		return apperror.ServiceUnavailable("Image storage is not configured", nil)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		zap.S().Errorf("Error deleting %s from object storage: %v", key, err)
		return apperror.Gateway("Failed to delete image from cloud storage", err.Error(), err)
	}
	return nil
}
