package storage

import (
	"context"
	"fmt"

	"github.com/pos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Archive backends
const (
	BackendNone       = "none"
	BackendFileSystem = "filesystem"
	BackendS3         = "s3"
)

// Archive keeps copies of exported documents
type Archive interface {
	// Store saves data under key and returns where it was stored
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Exists reports whether a document is stored under key
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the document stored under key
	Delete(ctx context.Context, key string) error
}

var (
	_ Archive = (*FileSystemArchive)(nil)
	_ Archive = (*S3Archive)(nil)
)

// New builds the configured archive. It returns a nil Archive when
// archiving is disabled. The S3 bucket is created when missing.
func New(ctx context.Context, cfg config.ArchiveConfig, logger *zap.Logger) (Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendFileSystem:
		archive, err := NewFileSystemArchive(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return archive, nil
	case BackendS3:
		archive, err := NewS3Archive(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
