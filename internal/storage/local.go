package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDriver keeps objects on disk, fanned out into two directory levels
// taken from the key prefix. The content type lives in a ".meta" sidecar.
type LocalDriver struct {
	BaseDir string
}

func NewLocalDriver(baseDir string) (*LocalDriver, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalDriver{BaseDir: baseDir}, nil
}

func (d *LocalDriver) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if len(key) < 4 {
		return filepath.Join(d.BaseDir, key), nil
	}
	return filepath.Join(d.BaseDir, key[0:2], key[2:4], key), nil
}

func (d *LocalDriver) Save(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	fullPath, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write object: %w", err)
	}

	if err := os.WriteFile(fullPath+".meta", []byte(contentType), 0o644); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write object metadata: %w", err)
	}
	return nil
}

func (d *LocalDriver) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := d.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if meta, err := os.ReadFile(fullPath + ".meta"); err == nil && len(meta) > 0 {
		contentType = string(meta)
	}
	return f, contentType, nil
}

func (d *LocalDriver) Delete(_ context.Context, key string) error {
	fullPath, err := d.path(key)
	if err != nil {
		return err
	}
	os.Remove(fullPath + ".meta")
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
