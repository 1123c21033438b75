package ingestion

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// DefaultExtensions are the file extensions analyzed by default
var DefaultExtensions = []string{".py", ".pyi", ".pyw"}

// DefaultExcludeDirs are directories never descended into
var DefaultExcludeDirs = []string{
	".git",
	".hg",
	".svn",
	"venv",
	".venv",
	"env",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".tox",
	".nox",
	".eggs",
	"build",
	"dist",
	"site-packages",
	"node_modules",
	".idea",
	".vscode",
}

// Walker discovers the source files to analyze
type Walker struct {
	extensions  map[string]bool
	excludeDirs map[string]bool
}

// NewWalker creates a walker keeping files with the given extensions and
// skipping DefaultExcludeDirs plus the given directory names. An empty
// extension list uses DefaultExtensions.
func NewWalker(extensions, excludeDirs []string) *Walker {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	w := &Walker{
		extensions:  make(map[string]bool, len(extensions)),
		excludeDirs: make(map[string]bool, len(DefaultExcludeDirs)+len(excludeDirs)),
	}
	for _, dir := range DefaultExcludeDirs {
		w.excludeDirs[dir] = true
	}
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range excludeDirs {
		w.excludeDirs[dir] = true
	}
	return w
}

// Collect expands targets into the list of files to analyze. Files are kept
// as given, whatever their extension; directories are walked recursively.
// Duplicates are dropped and the first occurrence wins.
func (w *Walker) Collect(ctx context.Context, targets []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, serrors.FileSystemErrorf(err, "cannot access target %s", target)
		}

		if !info.IsDir() {
			add(target)
			continue
		}

		found, err := w.WalkSourceFiles(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

// WalkSourceFiles returns the source files under root in lexical order
func (w *Walker) WalkSourceFiles(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && w.shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.isSupportedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, serrors.FileSystemErrorf(err, "failed to walk %s", root)
	}

	sort.Strings(files)
	return files, nil
}

// shouldSkipDir returns true if directory should be excluded from analysis
func (w *Walker) shouldSkipDir(name string) bool {
	if w.excludeDirs[name] {
		return true
	}
	// egg-info and similar packaging leftovers
	return strings.HasSuffix(name, ".egg-info")
}

// isSupportedFile returns true if file should be analyzed
func (w *Walker) isSupportedFile(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// FileStats holds statistics about discovered files
type FileStats struct {
	Total   int `json:"total" yaml:"total"`
	Source  int `json:"source" yaml:"source"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// CountFiles walks root and counts analyzed and skipped files
func (w *Walker) CountFiles(root string) (*FileStats, error) {
	stats := &FileStats{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && w.shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		stats.Total++
		if w.isSupportedFile(path) {
			stats.Source++
		} else {
			stats.Skipped++
		}
		return nil
	})
	if err != nil {
		return nil, serrors.FileSystemErrorf(err, "failed to walk %s", root)
	}

	return stats, nil
}
