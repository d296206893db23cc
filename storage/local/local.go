// Package local stores objects as files under a base directory.
package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		s, err := NewStorage(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		log.Debug("local storage ready", map[string]interface{}{"base_path": s.basePath})
		return s, nil
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath string
}

// NewStorage creates the base directory if needed.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

// resolve maps an object key to a file below basePath. Keys cannot climb out
// of the base directory.
func (s *Storage) resolve(key string) string {
	clean := path.Clean("/" + strings.ReplaceAll(key, `\`, "/"))
	return filepath.Join(s.basePath, filepath.FromSlash(clean))
}

// Upload writes to a temporary file and renames it into place.
func (s *Storage) Upload(_ context.Context, key string, reader io.Reader) error {
	fullPath := s.resolve(key)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.StorageError(fmt.Errorf("create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return errors.StorageError(fmt.Errorf("create file: %w", err))
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, reader); err != nil {
		_ = tmp.Close()
		return errors.StorageError(fmt.Errorf("write file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return errors.StorageError(fmt.Errorf("close file: %w", err))
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return errors.StorageError(fmt.Errorf("rename file: %w", err))
	}
	return nil
}

// Download opens the file for key.
func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("object", key)
		}
		return nil, errors.StorageError(fmt.Errorf("open file: %w", err))
	}
	return f, nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Storage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return errors.StorageError(fmt.Errorf("delete file: %w", err))
	}
	return nil
}

// Exists checks whether a regular file exists for key.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	info, err := os.Stat(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.StorageError(fmt.Errorf("stat file: %w", err))
	}
	return !info.IsDir(), nil
}

// List returns metadata for all files whose slash-separated key starts with prefix.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	files := []storage.FileInfo{}

	err := filepath.WalkDir(s.basePath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(filepath.Ext(p))
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, storage.FileInfo{
			Path:         key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ct,
		})
		return nil
	})
	if err != nil {
		return nil, errors.StorageError(fmt.Errorf("list files: %w", err))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

var _ storage.Storage = (*Storage)(nil)
