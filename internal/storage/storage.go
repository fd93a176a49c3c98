// Package storage provides object storage for generated media files.
package storage

import (
	"context"
	"io"
)

// ObjectStorage abstracts the media bucket. Keys are slash-separated paths
// like "videos/12/story.mp4"; URL returns the public address for a key.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// UploadFile reads a sidecar-produced local file and uploads it. The path
	// must pass the media-dir allowlist.
	UploadFile(ctx context.Context, key, localPath, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
