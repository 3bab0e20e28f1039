package storage

import (
	"context"
	"io"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UploadResult describes a stored object. Location is empty when the bucket has no public URL.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores generated documents such as match scoresheets. Archived scoresheets
// are never removed: a finished match is read-only.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	GetPublicURL(key string) string
}
