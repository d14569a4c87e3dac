package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directories never included in listings.
var skipDirs = map[string]struct{}{
	".git":          {},
	"__pycache__":   {},
	".venv":         {},
	".pytest_cache": {},
}

// FS exposes the file operations the agent may perform, rooted at the
// repository checkout. Relative paths resolve against Root; absolute
// paths pass through.
type FS struct {
	Root string
}

// NewFS returns an FS rooted at root.
func NewFS(root string) *FS {
	return &FS{Root: root}
}

func (f *FS) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Root, path)
}

// Read returns the contents of path.
func (f *FS) Read(path string) (string, error) {
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the contents of path, creating parent directories as
// needed.
func (f *FS) Write(path, content string) error {
	target := f.resolve(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0o644)
}

// List walks dir and returns the contained file paths, one per line,
// relative to Root. Ignored directories (.git and friends) are skipped.
func (f *FS) List(dir string) (string, error) {
	start := f.resolve(dir)

	var files []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(f.Root, path)
		if relErr != nil {
			rel = path
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}

	return strings.Join(files, "\n"), nil
}
