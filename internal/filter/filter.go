// Package filter decides which candidate paths qualify for formatting.
package filter

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/andyballingall/srcfmt/internal/config"
	"github.com/andyballingall/srcfmt/internal/fsh"
)

// PathFilter applies the extension, exclusion and scope rules of a Config.
// It holds no mutable state after construction.
type PathFilter struct {
	extensions   map[string]struct{}
	skippedDirs  map[string]struct{}
	skippedFiles map[string]struct{}
	formatDirs   []string
	patterns     []string
	resolver     fsh.PathResolver
}

// New creates a PathFilter from cfg. A nil resolver uses the standard one.
func New(cfg *config.Config, resolver fsh.PathResolver) *PathFilter {
	if resolver == nil {
		resolver = fsh.NewPathResolver()
	}
	return &PathFilter{
		extensions:   toSet(cfg.Extensions),
		skippedDirs:  toSet(cfg.SkippedDirs),
		skippedFiles: toSet(cfg.SkippedFiles),
		formatDirs:   slices.Clone(cfg.FormatDirs),
		patterns:     slices.Clone(cfg.ExcludePatterns),
		resolver:     resolver,
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Extension returns the final suffix of the base name, including the dot.
// Leading dots do not start an extension, so ".clang-format" and ".h" have none.
func Extension(path string) string {
	name := strings.TrimLeft(filepath.Base(path), ".")
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i:]
}

// IsEligible reports whether path has an allowed extension and is not excluded
// by file name, by any directory segment, or by an exclude pattern.
func (f *PathFilter) IsEligible(path string) bool {
	if _, ok := f.extensions[Extension(path)]; !ok {
		return false
	}

	clean := filepath.Clean(path)
	if _, ok := f.skippedFiles[filepath.Base(clean)]; ok {
		return false
	}

	for _, part := range strings.Split(filepath.Dir(clean), string(filepath.Separator)) {
		if _, ok := f.skippedDirs[part]; ok {
			return false
		}
	}

	slashed := filepath.ToSlash(clean)
	for _, p := range f.patterns {
		if ok, err := doublestar.Match(p, slashed); err == nil && ok {
			return false
		}
	}

	return true
}

// InScope reports whether path lies under one of the format directories of root.
// With no format directories every path is in scope. Paths or directories that
// cannot be resolved are treated as out of scope.
func (f *PathFilter) InScope(path, root string) bool {
	if len(f.formatDirs) == 0 {
		return true
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	resolved, err := f.resolver.CanonicalPath(path)
	if err != nil {
		return false
	}

	for _, dir := range f.formatDirs {
		scopeDir, dErr := f.resolver.CanonicalPath(filepath.Join(root, dir))
		if dErr != nil {
			continue
		}
		if fsh.IsWithin(resolved, scopeDir) {
			return true
		}
	}
	return false
}

// Select reduces candidates to the files that qualify for formatting. Relative
// candidates are taken relative to root. Only existing regular files are kept.
// Eligibility is judged on the root-relative path when the file lies inside root,
// so the location of the project itself never excludes its files.
// The result holds absolute paths, sorted and without duplicates.
func (f *PathFilter) Select(root string, candidates []string) []string {
	absRoot, err := f.resolver.Abs(root)
	if err != nil {
		absRoot = root
	}

	selected := make([]string, 0, len(candidates))
	for _, c := range candidates {
		path := c
		if !filepath.IsAbs(path) {
			path = filepath.Join(absRoot, path)
		}
		path = filepath.Clean(path)

		info, sErr := os.Stat(path)
		if sErr != nil || !info.Mode().IsRegular() {
			continue
		}

		if !f.InScope(path, absRoot) {
			continue
		}

		judged := path
		if fsh.IsWithin(path, absRoot) {
			judged = fsh.RelOrAbs(path, absRoot)
		}
		if !f.IsEligible(judged) {
			continue
		}

		selected = append(selected, path)
	}

	slices.Sort(selected)
	return slices.Compact(selected)
}
