// Package storage provides the temporary-object stores the validator checks
// uploads against: a baseDir-rooted local filesystem store and a Google Cloud
// Storage bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalFileStorage keeps temporary upload objects under a base directory.
// Object paths are relative to baseDir (e.g. tmp/<uniqueID>).
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes a temporary object at the specified relative path
func (s *LocalFileStorage) Save(ctx context.Context, path string, content []byte) error {
	fullPath := s.fullPath(path)

	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write temporary object",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to write temporary object: %w", err)
	}

	s.logger.Debug("Temporary object saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return nil
}

// Read returns the content of the object at the specified relative path
func (s *LocalFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	fullPath := s.fullPath(path)

	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.logger.Error("Failed to read temporary object",
			zap.String("path", fullPath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read temporary object: %w", err)
	}

	return content, nil
}

// Exists reports whether an object is present at the specified relative path.
// Paths that escape the base directory read as absent.
func (s *LocalFileStorage) Exists(ctx context.Context, path string) bool {
	fullPath := s.fullPath(path)
	if err := s.validatePath(fullPath); err != nil {
		s.logger.Warn("Rejected unsafe object path",
			zap.String("path", path),
			zap.Error(err))
		return false
	}

	info, err := os.Stat(fullPath)
	return err == nil && !info.IsDir()
}

// Delete removes the object at the specified relative path. Deleting an
// absent object is a no-op.
func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	fullPath := s.fullPath(path)

	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete temporary object",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete temporary object: %w", err)
	}

	s.logger.Debug("Temporary object deleted",
		zap.String("path", fullPath))

	return nil
}

// fullPath converts a relative object path to a filesystem path
func (s *LocalFileStorage) fullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

// validatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	// Ensure path starts with base + separator or equals base, so a sibling
	// directory sharing the base's prefix does not slip through.
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
