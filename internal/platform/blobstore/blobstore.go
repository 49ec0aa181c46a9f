// Package blobstore is the narrow contract over the managed file backend.
package blobstore

import (
	"context"
	"sync"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
)

type Store interface {
	// Upload stores bytes under path and returns the handle (the path).
	Upload(ctx context.Context, path string, data []byte) (string, error)
	// GetURL returns a public URL for the handle.
	GetURL(ctx context.Context, handle string) (string, error)
	Delete(ctx context.Context, handle string) error
}

// MemoryStore keeps blobs in process, for tests and local development.
type MemoryStore struct {
	BaseURL string

	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: baseURL, blobs: map[string][]byte{}}
}

func (s *MemoryStore) Upload(ctx context.Context, path string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[path] = cp
	return path, nil
}

func (s *MemoryStore) GetURL(ctx context.Context, handle string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.blobs[handle]; !ok {
		return "", apperrors.NotFound("blob " + handle)
	}
	return s.BaseURL + "/" + handle, nil
}

func (s *MemoryStore) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, handle)
	return nil
}

// Get returns the stored bytes. Test helper, not part of the Store contract.
func (s *MemoryStore) Get(handle string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[handle]
	return b, ok
}
