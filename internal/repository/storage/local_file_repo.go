package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFileRepository keeps uploads on disk. It backs development setups
// without a bucket; files are served from URLPrefix.
type LocalFileRepository struct {
	root      string
	urlPrefix string
}

var _ FileRepository = (*LocalFileRepository)(nil)

// NewLocalFileRepository creates root if needed
func NewLocalFileRepository(root, urlPrefix string) (*LocalFileRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalFileRepository{root: root, urlPrefix: urlPrefix}, nil
}

// Root is the directory files are written under
func (r *LocalFileRepository) Root() string {
	return r.root
}

// Upload writes data to root/objectPath and returns the object path
func (r *LocalFileRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	cleaned, err := CleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(r.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return cleaned, nil
}

// Delete removes a stored file; a missing file is not an error
func (r *LocalFileRepository) Delete(ctx context.Context, objectPath string) error {
	cleaned, err := CleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(r.root, filepath.FromSlash(cleaned)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the path the file is served under
func (r *LocalFileRepository) URL(ctx context.Context, objectPath string) (string, error) {
	cleaned, err := CleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	return r.urlPrefix + "/" + cleaned, nil
}
