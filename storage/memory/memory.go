// Package memory is an in-process storage.Storage backed by a map.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ context.Context, _ storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return New(), nil
	})
}

type memFile struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// Storage keeps objects in memory. It is safe for concurrent use.
type Storage struct {
	mu    sync.RWMutex
	files map[string]*memFile
	now   func() time.Time
}

// New creates an empty store.
func New() *Storage {
	return &Storage{files: make(map[string]*memFile), now: time.Now}
}

// Upload stores a copy of everything read from reader.
func (s *Storage) Upload(_ context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return errors.StorageError(fmt.Errorf("read upload data: %w", err))
	}
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = &memFile{data: data, contentType: ct, modTime: s.now()}
	return nil
}

// Download returns a reader over a copy of the stored bytes.
func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[key]
	if !ok {
		return nil, errors.NotFound("object", key)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(f.data))), nil
}

// Delete removes key. Missing keys are ignored.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

// Exists reports whether key is stored.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[key]
	return ok, nil
}

// List returns the objects under prefix sorted by key.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []storage.FileInfo{}
	for key, f := range s.files {
		if strings.HasPrefix(key, prefix) {
			result = append(result, storage.FileInfo{
				Path:         key,
				Size:         int64(len(f.data)),
				LastModified: f.modTime,
				ContentType:  f.contentType,
			})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// Len returns the number of stored objects.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

var _ storage.Storage = (*Storage)(nil)
