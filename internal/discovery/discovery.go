// Package discovery produces the candidate file lists that srcfmt filters and formats.
package discovery

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/andyballingall/srcfmt/internal/config"
	"github.com/andyballingall/srcfmt/internal/fsh"
	"github.com/andyballingall/srcfmt/internal/repo"
)

// Discoverer lists candidate files for a project root. Every result is sorted
// and free of duplicates.
type Discoverer struct {
	root     string
	cfg      *config.Config
	gitter   repo.Gitter
	resolver fsh.PathResolver
	logger   *slog.Logger
}

// New creates a Discoverer. gitter may be nil when no git mode will be used.
func New(root string, cfg *config.Config, gitter repo.Gitter, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discoverer{
		root:     root,
		cfg:      cfg,
		gitter:   gitter,
		resolver: fsh.NewPathResolver(),
		logger:   logger.With("component", "discovery"),
	}
}

// Discover returns the candidates for mode. inputs are only used by ModeExplicit.
func (d *Discoverer) Discover(ctx context.Context, mode Mode, inputs []string) ([]string, error) {
	switch mode {
	case ModeExplicit:
		return d.Explicit(inputs), nil
	case ModeAll:
		return d.All()
	case ModeDirty:
		return d.Dirty(ctx)
	case ModeBranchDiff:
		return d.BranchDiff(ctx), nil
	default:
		return nil, &UnknownModeError{Mode: mode}
	}
}

// Explicit expands items into files. Files are kept, directories are walked
// recursively and anything else, including missing paths, is skipped.
// Results are absolute paths.
func (d *Discoverer) Explicit(items []string) []string {
	var files []string
	for _, item := range items {
		abs, err := d.resolver.Abs(item)
		if err != nil {
			d.logger.Debug("skipping input", "path", item, "error", err)
			continue
		}

		info, err := os.Stat(abs)
		switch {
		case err != nil:
			d.logger.Debug("skipping missing input", "path", item)
		case info.Mode().IsRegular():
			files = append(files, abs)
		case info.IsDir():
			found, wErr := listFiles(abs)
			if wErr != nil {
				d.logger.Warn("could not read directory", "path", item, "error", wErr)
			}
			files = append(files, found...)
		}
	}
	return sortUnique(files)
}

// All lists every file under the configured format directories, relative to
// the root. Missing format directories are skipped. With no format directories
// the whole root is listed.
func (d *Discoverer) All() ([]string, error) {
	dirs := d.cfg.FormatDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var files []string
	for _, dir := range dirs {
		abs := filepath.Join(d.root, dir)
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			d.logger.Debug("format dir not found", "dir", dir)
			continue
		}

		found, err := listFiles(abs)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			rel, rErr := filepath.Rel(d.root, f)
			if rErr != nil {
				return nil, rErr
			}
			files = append(files, rel)
		}
	}
	return sortUnique(files), nil
}

// Dirty returns the union of modified, staged and untracked files. Any failing
// query fails the whole call: a partial dirty set would silently skip files.
func (d *Discoverer) Dirty(ctx context.Context) ([]string, error) {
	if d.gitter == nil {
		return nil, &DirtyFilesError{Wrapped: &repo.GitUnavailableError{}}
	}

	queries := []func(context.Context) ([]string, error){
		d.gitter.ModifiedFiles,
		d.gitter.StagedFiles,
		d.gitter.UntrackedFiles,
	}

	var files []string
	for _, q := range queries {
		found, err := q(ctx)
		if err != nil {
			return nil, &DirtyFilesError{Wrapped: err}
		}
		files = append(files, found...)
	}
	return sortUnique(files), nil
}

// baseStep is one way of finding the commit the current branch started from.
type baseStep struct {
	name string
	find func(ctx context.Context) (repo.Revision, error)
}

// baseSteps lists the comparison points to try, in order.
func (d *Discoverer) baseSteps() []baseStep {
	g := d.gitter
	return []baseStep{
		{name: "upstream merge-base", find: func(ctx context.Context) (repo.Revision, error) {
			upstream, err := g.Upstream(ctx)
			if err != nil {
				return "", err
			}
			return g.MergeBase(ctx, upstream)
		}},
		{name: "remote default branch merge-base", find: func(ctx context.Context) (repo.Revision, error) {
			ref, err := g.RemoteDefaultBranch(ctx)
			if err != nil {
				return "", err
			}
			return g.MergeBase(ctx, ref)
		}},
		{name: "root commit", find: g.RootCommit},
	}
}

// BranchBase returns the first comparison point that resolves, trying the
// upstream merge-base, then the remote default branch merge-base, then the root
// commit. ok is false when none resolves.
func (d *Discoverer) BranchBase(ctx context.Context) (base repo.Revision, ok bool) {
	if d.gitter == nil {
		return "", false
	}
	for _, step := range d.baseSteps() {
		rev, err := step.find(ctx)
		if err == nil && rev != "" {
			d.logger.Debug("resolved branch base", "step", step.name, "base", rev)
			return rev, true
		}
		d.logger.Debug("branch base step failed", "step", step.name, "error", err)
	}
	return "", false
}

// BranchDiff returns the files changed between the branch base and HEAD.
// Branch changes are advisory, so every failure yields an empty result.
func (d *Discoverer) BranchDiff(ctx context.Context) []string {
	base, ok := d.BranchBase(ctx)
	if !ok {
		return []string{}
	}

	files, err := d.gitter.ChangedFiles(ctx, base)
	if err != nil {
		d.logger.Debug("branch diff failed", "base", base, "error", err)
		return []string{}
	}
	return sortUnique(files)
}

// listFiles returns every non-directory entry below dir.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) && path != dir {
				return nil
			}
			return err
		}
		if !entry.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func sortUnique(files []string) []string {
	if files == nil {
		return []string{}
	}
	slices.Sort(files)
	return slices.Compact(files)
}
