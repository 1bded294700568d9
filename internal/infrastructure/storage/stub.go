package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/clube/backend/internal/application/report"
)

var _ report.Archive = (*MemoryArchive)(nil)

// MemoryArchive keeps uploads in process memory. It backs report archiving in
// development when no bucket is configured; links point at BaseURL and are not servable.
type MemoryArchive struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryArchive creates an empty MemoryArchive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		BaseURL: "http://localhost:9000/reports",
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Upload stores a copy of data under key
func (s *MemoryArchive) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a fake signed link for a stored key
func (s *MemoryArchive) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}

	expiresAt := s.now().Add(expiresIn)
	link := s.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return link, expiresAt, nil
}

// Get returns the stored bytes and content type of key
func (s *MemoryArchive) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}
