package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const defaultArchivePath = "./data/archive"

// ErrInvalidKey is returned for keys that would escape the archive root
var ErrInvalidKey = errors.New("invalid archive key")

// FileSystemArchive stores documents below a local directory
type FileSystemArchive struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemArchive creates the archive root if needed
func NewFileSystemArchive(basePath string, logger *zap.Logger) (*FileSystemArchive, error) {
	if basePath == "" {
		basePath = defaultArchivePath
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemArchive{basePath: basePath, logger: logger}, nil
}

// Store writes data to basePath/key and returns the file path
func (a *FileSystemArchive) Store(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := a.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	// Write to a temporary file first so readers never see a partial document
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	a.logger.Debug("Document archived",
		zap.String("path", fullPath),
		zap.Int("size", len(data)))
	return fullPath, nil
}

// Exists reports whether a document is stored under key
func (a *FileSystemArchive) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fullPath, err := a.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Delete removes a stored document. Missing documents are not an error.
func (a *FileSystemArchive) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := a.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps key below basePath, rejecting absolute keys and keys that
// climb out of the archive root
func (a *FileSystemArchive) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrInvalidKey
	}
	cleanKey := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleanKey) || containsDotDot(key) {
		a.logger.Warn("Blocked archive key", zap.String("key", key))
		return "", ErrInvalidKey
	}

	absBase, err := filepath.Abs(a.basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive path: %w", err)
	}
	absPath := filepath.Join(absBase, cleanKey)
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		a.logger.Warn("Blocked archive key", zap.String("key", key))
		return "", ErrInvalidKey
	}
	return absPath, nil
}

// containsDotDot checks the raw key for ".." components before any cleaning
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}
