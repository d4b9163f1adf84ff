package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"helperhub/internal/config"
)

// Storage writes blobs under a caller chosen key and returns a URL for them.
// Uploading to an existing key overwrites it.
type Storage interface {
	Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, error)
}

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

var ErrInvalidKey = errors.New("invalid storage key")

func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch StorageType(strings.ToLower(strings.TrimSpace(cfg.Type))) {
	case StorageTypeLocal, "":
		return NewLocalStorage(localPath(cfg), cfg.PublicBaseURL)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for s3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

const defaultLocalPath = "./storage/files"

func localPath(cfg config.StorageConfig) string {
	if strings.TrimSpace(cfg.LocalPath) == "" {
		return defaultLocalPath
	}
	return cfg.LocalPath
}

// ServedLocally reports the directory the HTTP server must serve itself:
// local storage without a public base URL hands out root-relative paths.
func ServedLocally(cfg config.StorageConfig) (string, bool) {
	switch StorageType(strings.ToLower(strings.TrimSpace(cfg.Type))) {
	case StorageTypeLocal, "":
	default:
		return "", false
	}
	if strings.TrimSpace(cfg.PublicBaseURL) != "" {
		return "", false
	}
	return localPath(cfg), true
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return strings.TrimRight(base, "/") + "/" + key
}
