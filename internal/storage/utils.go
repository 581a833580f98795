package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeName reduces name to characters safe for a file name.
func SanitizeName(name string) string {
	name = unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "chart"
	}
	return name
}

// GenerateArtifactPath generates a consistent path for a rendered chart
// Format: YYYY/MM/DD/<name>-YYYY-MM-DD-HH-MM-SS<ext>
func GenerateArtifactPath(name, ext string, timestamp time.Time) string {
	ext = normalizeExt(ext)
	return path.Join(
		fmt.Sprintf("%04d/%02d/%02d", timestamp.Year(), timestamp.Month(), timestamp.Day()),
		fmt.Sprintf("%s-%04d-%02d-%02d-%02d-%02d-%02d%s",
			SanitizeName(name),
			timestamp.Year(), timestamp.Month(), timestamp.Day(),
			timestamp.Hour(), timestamp.Minute(), timestamp.Second(), ext))
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// maxArtifactSuffix bounds the search for a free artifact path.
const maxArtifactSuffix = 100

// StoreArtifact stores data under GenerateArtifactPath and returns the path
// used. An existing file is never overwritten: when two artifacts share a
// name and second, the later one gets a -2, -3, ... suffix.
func StoreArtifact(ctx context.Context, client StorageClient, name, ext string, data []byte, timestamp time.Time) (string, error) {
	ext = normalizeExt(ext)
	base := GenerateArtifactPath(name, ext, timestamp)
	stem := strings.TrimSuffix(base, ext)
	candidate := base
	for n := 2; ; n++ {
		exists, err := client.FileExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		if n > maxArtifactSuffix {
			return "", fmt.Errorf("no free artifact path for %s", base)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	if err := client.StoreFile(ctx, candidate, data); err != nil {
		return "", err
	}
	return candidate, nil
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
