// Package documents stores the printable PDFs the pipeline produces: shipping
// labels and packing slips, one directory per category under a base path.
package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Categories used by the fulfillment pipeline.
const (
	CategoryLabels       = "labels"
	CategoryPackingSlips = "packing_slips"
)

// Store saves and retrieves printable documents on behalf of the pipeline.
type Store interface {
	// Save writes a document and returns its absolute path.
	Save(ctx context.Context, category, name string, data []byte) (string, error)
	// CleanupOlderThan removes documents older than the given age and
	// returns how many were removed.
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// FileSystemStoreConfig contains configuration for filesystem document storage.
type FileSystemStoreConfig struct {
	// BasePath is the root directory for documents. Default: data
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStore stores documents on the local filesystem.
type FileSystemStore struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemStore creates a filesystem-backed document store and ensures
// the base directory exists.
func NewFileSystemStore(config *FileSystemStoreConfig) (*FileSystemStore, error) {
	if config == nil {
		config = &FileSystemStoreConfig{}
	}
	basePath := config.BasePath
	if basePath == "" {
		basePath = "data"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create document directory %s: %w", basePath, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStore{basePath: basePath, logger: logger}, nil
}

// BasePath returns the root directory for documents.
func (s *FileSystemStore) BasePath() string {
	return s.basePath
}

// Save writes a document under basePath/category and returns its path. The
// name is sanitized so marketplace-supplied identifiers cannot escape the
// storage directory.
func (s *FileSystemStore) Save(ctx context.Context, category, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("documents: refusing to store empty document %s", name)
	}

	dir := filepath.Join(s.basePath, sanitize(category))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create category directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, sanitize(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write document %s: %w", path, err)
	}

	s.logger.Debug("Stored document",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return path, nil
}

// CleanupOlderThan removes documents older than the given age.
func (s *FileSystemStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove expired document",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, err
	}

	if removed > 0 {
		s.logger.Info("Cleaned up expired documents", zap.Int("removed", removed))
	}
	return removed, nil
}

// sanitize strips path separators and parent references from a component.
func sanitize(component string) string {
	component = strings.ReplaceAll(component, "..", "")
	component = strings.ReplaceAll(component, "/", "_")
	component = strings.ReplaceAll(component, "\\", "_")
	if component == "" {
		component = "unnamed"
	}
	return component
}
