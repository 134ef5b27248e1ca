package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when deleting a file that does not exist
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that could escape the store
	ErrInvalidName = errors.New("invalid file name")
)

// FileStore persists uploaded files under generated names
type FileStore interface {
	// Save stores the content and returns the generated name
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	// Delete removes a stored file; ErrNotFound if it is absent
	Delete(ctx context.Context, name string) error
}

// GenerateName builds a collision-free stored name from a client file name:
// the stem up to the first dot, a UUID, then the text after the last dot.
func GenerateName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	stem, ext := base, ""
	if i := strings.Index(base, "."); i >= 0 {
		stem = base[:i]
		ext = base[strings.LastIndex(base, ".")+1:]
	}
	stem = sanitize(stem)
	ext = sanitize(ext)
	if stem == "" {
		stem = "file"
	}

	name := stem + "-" + uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return name
}

// ValidateName rejects empty names and anything with a path component
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") || strings.Contains(name, "\x00") {
		return ErrInvalidName
	}
	return nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
