package storage

import (
	"context"
)

// StorageClient defines the interface for rendered chart artifacts
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists files under a directory, newest path first
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)
}
