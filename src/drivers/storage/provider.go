package storage

import (
	"context"
	"io"
	"time"
)

// BlobInfo describes a stored blob
type BlobInfo struct {
	Name     string    `json:"name"`
	Key      string    `json:"key"` // Relative key under the store root
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
	MimeType string    `json:"mimeType"`
}

// BlobStore defines the interface for underlying blob backends (Local, S3, etc.).
// Keys are slash-separated relative paths, e.g. "<userID>/<ts>_<filename>".
type BlobStore interface {
	Write(ctx context.Context, key string, data io.Reader, contentType string) (int64, error)
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (*BlobInfo, error)

	// FullPath resolves a key to an absolute filesystem path where the
	// backend supports direct access (local serving of static files).
	FullPath(key string) (string, error)
}
