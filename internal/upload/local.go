// Package upload stores complaint attachments outside the complaint table.
//
// The record only keeps the location returned by Save: a relative path for
// the local directory store, an object URL for S3.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "citizenhub/internal/errors"
)

// Local writes attachments into a directory on disk as <id>_<filename>.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Save copies data to the upload directory and returns its path.
func (l *Local) Save(_ context.Context, id int64, filename string, data io.Reader) (string, error) {
	name, err := objectName(id, filename)
	if err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return filepath.ToSlash(path), nil
}

// Delete removes an attachment previously returned by Save. Paths outside
// the upload directory are refused.
func (l *Local) Delete(_ context.Context, location string) error {
	path := filepath.Clean(filepath.FromSlash(location))
	if filepath.Dir(path) != filepath.Clean(l.dir) {
		return fmt.Errorf("refusing to delete %s outside %s", location, l.dir)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// objectName strips any directory part a client sent and prefixes the ID.
func objectName(id int64, filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", apperrors.NewValidationError("image", fmt.Sprintf("invalid attachment filename %q", filename))
	}
	return fmt.Sprintf("%d_%s", id, base), nil
}
