package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	identityapp "github.com/mealportal/backend/internal/application/identity"
)

// Ensure StubObjectStorage implements ObjectStorage
var _ identityapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage keeps objects in memory and hands out fake URLs.
// Used in development and tests where no S3 bucket exists.
type StubObjectStorage struct {
	// BaseURL is the prefix for generated download URLs.
	BaseURL string
	bucket  string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(bucket string) *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory.
func (s *StubObjectStorage) Upload(ctx context.Context, key string, contentType string, body []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(body))
	copy(data, body)
	s.objects[key] = data
	return nil
}

// PresignGet returns a fake download URL with an expiry marker.
func (s *StubObjectStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/" + s.bucket + "/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339), nil
}

// BucketName returns the configured bucket name.
func (s *StubObjectStorage) BucketName() string {
	return s.bucket
}

// Object returns a stored object for test assertions.
func (s *StubObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
