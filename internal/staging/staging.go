// Package staging manages per-request working directories. Every request
// gets a uniquely named area under a shared root, so concurrent requests
// never collide, and each area is removed on every exit path to avoid disk
// leakage across many requests.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Area is one request-private staging directory. Conversion outputs and
// archives live here until delivered; Remove discards everything.
type Area struct {
	Path string
}

// New creates a fresh area under root named <base>_<suffix>, where the
// suffix is a random fragment keeping concurrent requests apart. The root
// is created if missing.
func New(root, base string) (*Area, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	path := filepath.Join(root, sanitize(base)+"_"+suffix)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create staging area: %w", err)
	}
	return &Area{Path: path}, nil
}

// Join returns the path of name inside the area.
func (a *Area) Join(name string) string {
	return filepath.Join(a.Path, name)
}

// Remove deletes the area and everything in it. Safe to call multiple
// times; callers defer it as soon as the area exists.
func (a *Area) Remove() error {
	return os.RemoveAll(a.Path)
}

// sanitize strips path separators and dots from a caller-supplied base name
// so it cannot escape the staging root.
func sanitize(base string) string {
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		default:
			return r
		}
	}, base)
	base = strings.Trim(base, ". ")
	if base == "" {
		base = "sticker"
	}
	return base
}
