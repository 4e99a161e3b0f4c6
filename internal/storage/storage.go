package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrStorageDisabled is returned by NoopStorage when a URL is requested.
var ErrStorageDisabled = errors.New("object storage is not configured")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// TranscriptKey returns a fresh object key for one generation transcript.
func TranscriptKey(ownerID, planID string) string {
	return fmt.Sprintf("transcripts/%s/%s/%s.json", ownerID, planID, uuid.NewString())
}

// NoopStorage discards writes. Used when no bucket is configured.
type NoopStorage struct{}

func (NoopStorage) PutObject(context.Context, string, string, []byte) error { return nil }

func (NoopStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (NoopStorage) DeleteObject(context.Context, string) error { return nil }
