// Package persist manages output directories for scripts. A Dir is
// created on disk the moment it is requested, so modes can hand paths
// around without sprinkling MkdirAll calls.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a directory that exists on disk for as long as the object is
// reachable. Nested directories requested through Sub are created on
// demand and cached, so asking twice for the same subtree returns the
// same object.
type Dir struct {
	path        string
	descendants map[string]*Dir
}

// New resolves path, creating the directory chain if needed. It fails
// when the path exists and is not a directory.
func New(path string) (*Dir, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("path %q exists and is not a directory", path)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	return &Dir{path: path, descendants: make(map[string]*Dir)}, nil
}

// Sub returns the Dir for a relative path like "subdir/subsubdir",
// creating every level that does not exist yet. Only fully-specified
// relative paths are accepted: absolute paths and "." or ".." segments
// are rejected.
func (d *Dir) Sub(rel string) (*Dir, error) {
	if filepath.IsAbs(rel) {
		return nil, fmt.Errorf("only relative paths are allowed in the form \"subdir/subsubdir\", got %q", rel)
	}
	for _, part := range strings.Split(rel, "/") {
		if part == "" || part == "." || part == ".." {
			return nil, fmt.Errorf("only relative paths are allowed in the form \"subdir/subsubdir\", got %q", rel)
		}
	}

	first, rest, _ := strings.Cut(rel, "/")

	child, ok := d.descendants[first]
	if !ok {
		var err error
		child, err = New(d.Join(first))
		if err != nil {
			return nil, err
		}
		d.descendants[first] = child
	}

	if rest == "" {
		return child, nil
	}

	return child.Sub(rest)
}

// Join joins the stored path with the one given.
func (d *Dir) Join(path string) string {
	return filepath.Join(d.path, path)
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

func (d *Dir) String() string {
	return fmt.Sprintf("Dir(path=%q)", d.path)
}
