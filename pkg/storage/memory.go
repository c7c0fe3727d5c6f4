package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var _ ObjectStorage = (*MemoryStorage)(nil)

// ErrObjectNotFound is returned by MemoryStorage.Get for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStorage keeps objects in process memory. Used when no S3 bucket is configured.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string

	// FailKeys makes Upload fail for keys matching the predicate (tests only)
	FailKeys func(key string) bool
}

// NewMemoryStorage creates an in-memory object store serving URLs under baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the object
func (m *MemoryStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailKeys != nil && m.FailKeys(key) {
		return nil, fmt.Errorf("memory upload failed: %s", key)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("memory upload failed: %w", err)
	}

	m.mu.Lock()
	m.objects[key] = Object{Data: buf.Bytes(), ContentType: contentType}
	m.mu.Unlock()

	return &UploadResult{
		Key:         key,
		URL:         m.PublicURL(key),
		ContentType: contentType,
		Size:        n,
	}, nil
}

// Delete removes the object; unknown keys are ignored
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// PublicURL returns the URL the object is served from
func (m *MemoryStorage) PublicURL(key string) string {
	return m.baseURL + "/" + key
}

// Get returns a stored object
func (m *MemoryStorage) Get(key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

// Len returns the number of stored objects
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
