package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStorage держит медиа в памяти процесса и отдает их через /media/*key
type MemoryStorage struct {
	mu       sync.RWMutex
	objects  map[string]*Object
	baseURL  string
	maxBytes int64
}

// NewMemoryStorage; maxBytes <= 0 - без ограничения размера
func NewMemoryStorage(baseURL string, maxBytes int64) *MemoryStorage {
	return &MemoryStorage{
		objects:  make(map[string]*Object),
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

func (s *MemoryStorage) Upload(_ context.Context, input *UploadInput) (*UploadResult, error) {
	if input.Key == "" {
		return nil, fmt.Errorf("upload key is empty")
	}

	reader := input.Data
	if s.maxBytes > 0 {
		reader = io.LimitReader(input.Data, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", input.Key, err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("object %s exceeds %d bytes", input.Key, s.maxBytes)
	}

	s.mu.Lock()
	s.objects[input.Key] = &Object{Key: input.Key, ContentType: input.ContentType, Data: data}
	s.mu.Unlock()

	return &UploadResult{Key: input.Key, URL: s.url(input.Key)}, nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; !exists {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) Open(_ context.Context, key string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	out := *obj
	return &out, nil
}

func (s *MemoryStorage) url(key string) string {
	return fmt.Sprintf("%s/media/%s", s.baseURL, key)
}
