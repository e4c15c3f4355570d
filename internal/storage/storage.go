package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("object not found")

// Store is the object storage gateway. Keys are flat paths like
// "internal-content/1768643880714-showroom.jsx"; Put returns the public
// URL the stored object is reachable at.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// MemoryStore keeps objects in memory. Used by tests and as the fallback
// when no bucket is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemory(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://bucket"
	}
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (m *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return m.PublicURL(key), nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return m.baseURL + "/" + strings.TrimPrefix(key, "/")
}
