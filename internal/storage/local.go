package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidPath is returned for paths that escape the base directory.
var ErrInvalidPath = errors.New("invalid storage path")

// LocalStorageClient stores artifacts under a base directory
type LocalStorageClient struct {
	baseDir string
}

var _ StorageClient = (*LocalStorageClient)(nil)

// NewLocalStorageClient creates a new local storage client
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if baseDir == "" {
		baseDir = "charts"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStorageClient{baseDir: baseDir}, nil
}

// BaseDir returns the directory artifacts are stored under.
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// resolve maps a relative storage path into baseDir.
func (l *LocalStorageClient) resolve(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return filepath.Join(l.baseDir, clean), nil
}

// StoreFile writes fileData at filePath, creating parent directories
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(filePath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", full, err)
	}
	return nil
}

// GetFile retrieves a file from local storage
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	full, err := l.resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", full, err)
	}
	return data, nil
}

// FileExists checks if a regular file exists at filePath
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	full, err := l.resolve(filePath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", full, err)
	}
	return !info.IsDir(), nil
}

// ListDir lists files under dirPath relative to the base directory, sorted
// in reverse so date-prefixed artifacts come newest first
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	root, err := l.resolve(dirPath)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}
