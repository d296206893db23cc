package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/kbukum/fluency/errors"
)

// ObjectInfo contains minimal metadata about a stored object.
type ObjectInfo struct {
	Key  string // Object path/key
	Size int64  // Size in bytes
}

// ByteClient provides a []byte-oriented interface for storage operations.
type ByteClient interface {
	// Upload stores data at the given path.
	Upload(ctx context.Context, path string, data []byte) error

	// Download retrieves data from the given path.
	Download(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object at the given path.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns metadata for all objects whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ByteOption configures a ByteClient.
type ByteOption func(*byteAdapter)

// WithMaxSize rejects uploads and downloads larger than n bytes. Zero disables the limit.
func WithMaxSize(n int64) ByteOption {
	return func(a *byteAdapter) { a.maxSize = n }
}

type byteAdapter struct {
	storage Storage
	maxSize int64
}

// NewByteClient wraps a streaming Storage implementation with []byte convenience methods.
func NewByteClient(s Storage, opts ...ByteOption) ByteClient {
	a := &byteAdapter{storage: s}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *byteAdapter) Upload(ctx context.Context, path string, data []byte) error {
	if a.maxSize > 0 && int64(len(data)) > a.maxSize {
		return a.tooLarge(path)
	}
	return a.storage.Upload(ctx, path, bytes.NewReader(data))
}

func (a *byteAdapter) Download(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := io.Reader(rc)
	if a.maxSize > 0 {
		r = io.LimitReader(rc, a.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.StorageError(fmt.Errorf("read %s: %w", path, err))
	}
	if a.maxSize > 0 && int64(len(data)) > a.maxSize {
		return nil, a.tooLarge(path)
	}
	return data, nil
}

func (a *byteAdapter) Delete(ctx context.Context, path string) error {
	return a.storage.Delete(ctx, path)
}

func (a *byteAdapter) Exists(ctx context.Context, path string) (bool, error) {
	return a.storage.Exists(ctx, path)
}

func (a *byteAdapter) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := a.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	objects := make([]ObjectInfo, len(files))
	for i, f := range files {
		objects[i] = ObjectInfo{
			Key:  f.Path,
			Size: f.Size,
		}
	}
	return objects, nil
}

func (a *byteAdapter) tooLarge(path string) error {
	return errors.InvalidInput("file", fmt.Sprintf("exceeds the %d byte limit", a.maxSize)).
		WithDetail("path", path)
}
