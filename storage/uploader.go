package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object. Location is the public URL that
// ends up in Round.ArchiveURL.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object store behind the round archive. The R2
// uploader implements it; tests use an in-memory one.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
