package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

type memoryObject struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// MemoryStorage is an in-memory implementation of ObjectStorage
// Suitable for local development and tests
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject // path -> object
}

var _ repositories.ObjectStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates a new empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]memoryObject),
	}
}

// Upload implements ObjectStorage interface
func (m *MemoryStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", errors.New("path is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[path]; exists {
		return "", fmt.Errorf("object %s already exists", path)
	}

	if contentType == "" {
		contentType = contentTypeForPath(path)
	}
	m.objects[path] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		updatedAt:   time.Now(),
	}
	return path, nil
}

// List implements ObjectStorage interface
func (m *MemoryStorage) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	prefix = listPrefix(prefix)

	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := []entities.StoredObject{}
	for path, object := range m.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		name := strings.TrimPrefix(path, prefix)
		if strings.Contains(name, "/") {
			continue // nested folder
		}
		objects = append(objects, entities.StoredObject{
			Name:      name,
			Path:      path,
			Size:      int64(len(object.data)),
			UpdatedAt: object.updatedAt,
		})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Name < objects[j].Name
	})
	return objects, nil
}

// DeleteMany implements ObjectStorage interface. Missing paths are ignored.
func (m *MemoryStorage) DeleteMany(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, path := range paths {
		delete(m.objects, strings.Trim(path, "/"))
	}
	return nil
}

// Copy implements ObjectStorage interface
func (m *MemoryStorage) Copy(ctx context.Context, srcPath, dstPath string) (string, error) {
	srcPath = strings.Trim(srcPath, "/")
	dstPath = strings.Trim(dstPath, "/")

	m.mu.Lock()
	defer m.mu.Unlock()

	object, exists := m.objects[srcPath]
	if !exists {
		return "", fmt.Errorf("object %s not found", srcPath)
	}
	if _, exists := m.objects[dstPath]; exists {
		return "", fmt.Errorf("object %s already exists", dstPath)
	}

	object.updatedAt = time.Now()
	m.objects[dstPath] = object
	return dstPath, nil
}

// Get returns a copy of the stored bytes
func (m *MemoryStorage) Get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	object, exists := m.objects[strings.Trim(path, "/")]
	if !exists {
		return nil, false
	}
	return append([]byte(nil), object.data...), true
}
