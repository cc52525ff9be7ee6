package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

// FileExtension is appended to the presentation id to form the file name.
const FileExtension = ".pptx"

// FileStore keeps one document per presentation under a root directory.
// Writes go to a temp file in the same directory and are renamed into place,
// so readers never see a partially written document.
type FileStore struct {
	root   string
	logger *zap.Logger
}

// NewFileStore creates root if needed.
func NewFileStore(root string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir %s: %w", root, err)
	}
	return &FileStore{root: abs, logger: logger.Named("FileStore")}, nil
}

// Root returns the absolute storage directory.
func (s *FileStore) Root() string { return s.root }

// Path returns where the document of id lives. Only uuid ids are accepted.
func (s *FileStore) Path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: malformed presentation id", model.ErrNotFound)
	}
	return filepath.Join(s.root, id+FileExtension), nil
}

// Write atomically replaces the document of id with data and returns its path.
func (s *FileStore) Write(id string, data []byte) (string, error) {
	path, err := s.Path(id)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.root, "."+id+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", model.ErrStorageFailed, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove temp file", zap.String("path", tmpPath), zap.Error(rmErr))
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: write temp file: %v", model.ErrStorageFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: sync temp file: %v", model.ErrStorageFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: close temp file: %v", model.ErrStorageFailed, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: chmod temp file: %v", model.ErrStorageFailed, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: rename temp file: %v", model.ErrStorageFailed, err)
	}
	return path, nil
}

// Open opens the document of id for reading.
func (s *FileStore) Open(id string) (*os.File, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file for %s is missing", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrStorageFailed, path, err)
	}
	return f, nil
}

// Remove deletes the document of id. A missing file is not an error.
func (s *FileStore) Remove(id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", model.ErrStorageFailed, path, err)
	}
	return nil
}
