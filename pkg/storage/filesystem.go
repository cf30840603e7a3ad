package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage serves objects from a directory laid out as <baseDir>/<bucket>/<path>.
type LocalStorage struct {
	baseDir    string
	publicBase string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, publicBase string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./materials"
	}
	if publicBase == "" {
		publicBase = "/files"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicBase: publicBase}, nil
}

// List returns the regular files directly under bucket/prefix. A missing directory yields an empty list.
func (s *LocalStorage) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.resolve(bucket, prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Object{}, nil
		}
		return nil, fmt.Errorf("read storage directory: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		objects = append(objects, Object{Name: entry.Name(), Size: info.Size(), UpdatedAt: info.ModTime().UTC()})
	}
	return objects, nil
}

// PublicURL returns the URL under which the application serves the object.
func (s *LocalStorage) PublicURL(bucket, objectPath string) string {
	return publicURL(s.publicBase, bucket, objectPath)
}

// Dir exposes the root directory for static serving.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// PublicBase is the URL prefix the directory is served under.
func (s *LocalStorage) PublicBase() string {
	return s.publicBase
}

func (s *LocalStorage) resolve(bucket, prefix string) (string, error) {
	path := filepath.Join(s.baseDir, bucket, filepath.FromSlash(prefix))
	root := filepath.Clean(s.baseDir)
	if path != root && !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", prefix)
	}
	return path, nil
}
