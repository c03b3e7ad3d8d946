package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"github.com/whisperbox/whisperbox-backend/pkg/storage"
)

// MaxImageSize is the upload limit for images (10 MiB)
const MaxImageSize int64 = 10 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ObjectStorage is the object store used by UploadService
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, opts storage.PutOptions) (*storage.UploadResult, error)
	Delete(ctx context.Context, bucket, key string) error
}

// ImageStore uploads and removes public images
type ImageStore interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader, ownerID, bucket string) UploadResult
	DeleteImage(ctx context.Context, fileURL, bucket string) bool
}

// UploadResult is the outcome of UploadImage. Failures are values, not errors.
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
	// Rejected marks a validation failure that happened before any network call
	Rejected bool `json:"-"`
}

// UploadService validates images and moves them to object storage
type UploadService struct {
	store ObjectStorage
	now   func() time.Time
}

// NewUploadService creates an UploadService. A nil store makes every upload fail.
func NewUploadService(store ObjectStorage) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// ValidateImage checks the declared MIME type and size
func ValidateImage(file *multipart.FileHeader) error {
	if file == nil {
		return errors.New("no file provided")
	}
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return errors.New("invalid file type. Please upload a JPEG, PNG, or WebP image")
	}
	if file.Size > MaxImageSize {
		return fmt.Errorf("file size too large. Please upload an image smaller than %dMB", MaxImageSize/(1024*1024))
	}
	return nil
}

// UploadImage stores file under owner/owner_<millis>.<ext> in bucket without overwriting
func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader, ownerID, bucket string) UploadResult {
	if err := ValidateImage(file); err != nil {
		return UploadResult{Error: err.Error(), Rejected: true}
	}
	if s.store == nil {
		return UploadResult{Error: "storage is not configured"}
	}

	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	key := imageKey(ownerID, file.Filename, contentType, s.now())

	src, err := file.Open()
	if err != nil {
		return UploadResult{Error: fmt.Sprintf("failed to read file: %v", err)}
	}
	defer src.Close()

	result, err := s.store.Upload(ctx, bucket, key, src, file.Size, storage.PutOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
		NoOverwrite:  true,
	})
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("image upload failed")
		return UploadResult{Error: err.Error()}
	}

	pkglogger.GetLogger().Info().
		Str("bucket", bucket).
		Str("key", result.Key).
		Int64("size", file.Size).
		Msg("image uploaded")

	return UploadResult{Success: true, URL: result.URL}
}

// DeleteImage removes the object behind a URL returned by UploadImage
func (s *UploadService) DeleteImage(ctx context.Context, fileURL, bucket string) bool {
	if s.store == nil || fileURL == "" {
		return false
	}

	key, err := storage.KeyFromURL(fileURL, 2)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("url", fileURL).Msg("cannot recover storage path")
		return false
	}

	if err := s.store.Delete(ctx, bucket, key); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("image delete failed")
		return false
	}
	return true
}

func imageKey(ownerID, filename, contentType string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}
	return fmt.Sprintf("%s/%s_%d.%s", ownerID, ownerID, now.UnixMilli(), ext)
}
