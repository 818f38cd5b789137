package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func absolutePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}

	return out
}

// relativeTo rewrites every path as relative to the given directory.
func relativeTo(dir string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s against %s: %w", p, dir, err)
		}
		out = append(out, rel)
	}

	return out, nil
}

// rootContaining returns the first root that is the directory itself or
// one of its ancestors.
func rootContaining(roots []string, dir string) (string, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root, true
		}
	}

	return "", false
}
