package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"arts.org/internal/ids"
)

// FS stores files under a local directory and serves them under baseURL.
type FS struct {
	dir     string
	baseURL string
}

// NewFS creates the directory if needed. baseURL is the public prefix files
// are served from, e.g. "/files".
func NewFS(dir, baseURL string) (*FS, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("blob: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create dir: %w", err)
	}
	return &FS{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FS) Put(ctx context.Context, r io.Reader, contentType string) (string, error) {
	ref := ids.New() + extensionFor(contentType)
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("blob: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("blob: write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("blob: close: %w", err)
	}
	return ref, nil
}

func (s *FS) URL(ref string) string {
	return s.baseURL + "/" + ref
}

func (s *FS) Delete(ctx context.Context, ref string) error {
	// Refs are generated by Put; reject anything that escapes the dir.
	if ref == "" || ref != path.Base(ref) {
		return errors.New("blob: invalid ref")
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blob: delete: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
