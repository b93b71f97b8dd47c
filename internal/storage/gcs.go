package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"google.golang.org/api/option"
)

// MaxAttachmentSize is the upload ceiling enforced server-side regardless of
// any client checks.
const MaxAttachmentSize = 10 << 20 // 10 MB

var allowedTypes = map[string]model.AttachmentType{
	"image/jpeg":      model.AttachmentTypeImage,
	"image/png":       model.AttachmentTypeImage,
	"image/gif":       model.AttachmentTypeImage,
	"image/webp":      model.AttachmentTypeImage,
	"application/pdf": model.AttachmentTypeFile,
}

// ValidateAttachment checks the sniffed content type and size against the
// allowlist. The content type must come from the bytes, not the client's
// declared header.
func ValidateAttachment(contentType string, size int64) (model.AttachmentType, error) {
	if size <= 0 {
		return "", apperr.Validation("attachment is empty")
	}
	if size > MaxAttachmentSize {
		return "", apperr.Validation("attachment exceeds the 10 MB limit")
	}
	kind, ok := allowedTypes[contentType]
	if !ok {
		return "", apperr.Validation(fmt.Sprintf("attachment type %s is not allowed", contentType))
	}
	return kind, nil
}

// Uploader stores attachment bytes and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, roomID uint64, contentType string, r io.Reader) (string, error)
}

type GCSUploader struct {
	client *gcs.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket, credentialsPath string) (*GCSUploader, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, roomID uint64, contentType string, r io.Reader) (string, error) {
	objectName := fmt.Sprintf("chat/%d/%s", roomID, uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName), nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}
