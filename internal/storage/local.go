package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pageza/recipeshare/backend/internal/metrics"
)

// LocalStore keeps files in a single directory on disk
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory files are served from
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes to a temp file in the same directory and renames it into
// place, so a reader never sees a partial file.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (name string, err error) {
	defer func() { metrics.RecordFileOperation("save", err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name = GenerateName(originalName)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return name, nil
}

// Delete removes a stored file
func (s *LocalStore) Delete(ctx context.Context, name string) (err error) {
	defer func() { metrics.RecordFileOperation("delete", err) }()

	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
