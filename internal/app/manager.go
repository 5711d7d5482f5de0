package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/andyballingall/srcfmt/internal/config"
	"github.com/andyballingall/srcfmt/internal/discovery"
	"github.com/andyballingall/srcfmt/internal/filter"
	"github.com/andyballingall/srcfmt/internal/format"
	"github.com/andyballingall/srcfmt/internal/fsh"
	"github.com/andyballingall/srcfmt/internal/report"
	"github.com/andyballingall/srcfmt/internal/repo"
	"github.com/andyballingall/srcfmt/internal/watch"
)

// fallbackModeLabel is shown when branch changes were wanted but git cannot be used.
const fallbackModeLabel = "all files (git not available)"

// Selection is what the user asked to format.
type Selection struct {
	// Inputs are explicit files or directories. Non-empty selects explicit mode.
	Inputs   []string
	Modified bool
	All      bool
}

// Manager defines the formatting operations behind the command line.
type Manager interface {
	// Format runs one discovery and formatting pass.
	Format(ctx context.Context, sel Selection) error
	// Watch runs Format, then re-formats files as they change until ctx is done.
	// ready, when non-nil, receives a value once the watcher is listening.
	Watch(ctx context.Context, sel Selection, ready chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner  Manager
	closer io.Closer
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// SetCloser registers a resource, such as the log file, released by Close.
func (l *LazyManager) SetCloser(c io.Closer) {
	l.closer = c
}

// Close releases the registered resource, if any.
func (l *LazyManager) Close() error {
	if l.closer == nil {
		return nil
	}
	c := l.closer
	l.closer = nil
	return c.Close()
}

// HasInner returns true if the inner manager has been set.
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Format(ctx context.Context, sel Selection) error {
	return l.check().Format(ctx, sel)
}

func (l *LazyManager) Watch(ctx context.Context, sel Selection, ready chan<- struct{}) error {
	return l.check().Watch(ctx, sel, ready)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger    *slog.Logger
	root      string
	cfg       *config.Config
	tool      string
	gitter    repo.Gitter
	filter    *filter.PathFilter
	formatter format.Formatter
	out       io.Writer
	useColour bool

	checkGit  func() error
	checkTool func(string) (string, error)
}

// NewCLIManager wires a manager for the project at root.
func NewCLIManager(l *slog.Logger, root string, cfg *config.Config, tool string, out io.Writer, useColour bool) *CLIManager {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &CLIManager{
		logger:    l,
		root:      root,
		cfg:       cfg,
		tool:      tool,
		gitter:    repo.NewCLIGitter(root, l),
		filter:    filter.New(cfg, nil),
		formatter: format.NewClangFormat(tool, root, l),
		out:       out,
		useColour: useColour,
		checkGit:  repo.CheckGit,
		checkTool: format.CheckTool,
	}
}

func (m *CLIManager) Format(ctx context.Context, sel Selection) error {
	_, err := m.formatOnce(ctx, sel)
	return err
}

// formatOnce runs a single pass and returns the files it handed to the formatter.
func (m *CLIManager) formatOnce(ctx context.Context, sel Selection) ([]string, error) {
	rep := report.NewTextReporter(m.out, m.useColour)
	rep.Header(m.cfg.FormatDirsLabel())

	tool, err := m.checkTool(m.tool)
	if err != nil {
		rep.Error("Missing " + m.tool)
		return nil, err
	}
	if err = m.pinTool(tool); err != nil {
		return nil, err
	}

	mode, label, err := m.resolveMode(ctx, sel)
	if err != nil {
		rep.Error("Git not available or not a git repository")
		return nil, err
	}
	rep.KV("Mode", label)
	m.logger.Debug("resolved mode", "mode", mode, "root", m.root)

	d := discovery.New(m.root, m.cfg, m.gitter, m.logger)
	candidates, err := d.Discover(ctx, mode, sel.Inputs)
	if err != nil {
		return nil, err
	}

	files := m.filter.Select(m.root, candidates)
	m.logger.Debug("selected files", "candidates", len(candidates), "files", len(files))
	rep.Files(files)
	if len(files) == 0 {
		return files, nil
	}

	return files, m.runAndReport(ctx, rep, files)
}

// pinTool makes the formatter run the executable the prerequisite check found.
// The tool runs from the project root, so a relative path is made absolute
// against the working directory first.
func (m *CLIManager) pinTool(resolved string) error {
	cf, ok := m.formatter.(*format.ClangFormat)
	if !ok {
		return nil
	}
	if !filepath.IsAbs(resolved) {
		abs, err := fsh.Abs(resolved)
		if err != nil {
			return err
		}
		resolved = abs
	}
	cf.Tool = resolved
	return nil
}

func (m *CLIManager) runAndReport(ctx context.Context, rep *report.TextReporter, files []string) error {
	results := format.NewRunner(m.formatter, m.logger).Run(ctx, files)
	if err := ctx.Err(); err != nil {
		return err
	}
	rep.Results(results)

	if failed := format.Failures(results); len(failed) > 0 {
		return &FormatFailuresError{Failed: len(failed), Total: len(files)}
	}
	return nil
}

// resolveMode maps the selection onto a discovery mode and its display label.
// An explicit --modified needs git; the implicit default quietly falls back to
// listing all files.
func (m *CLIManager) resolveMode(ctx context.Context, sel Selection) (discovery.Mode, string, error) {
	switch {
	case len(sel.Inputs) > 0:
		return discovery.ModeExplicit, discovery.ModeExplicit.String(), nil
	case sel.All:
		return discovery.ModeAll, discovery.ModeAll.String(), nil
	case sel.Modified:
		if err := m.requireRepo(ctx); err != nil {
			return 0, "", err
		}
		return discovery.ModeDirty, discovery.ModeDirty.String(), nil
	default:
		if err := m.requireRepo(ctx); err != nil {
			m.logger.Debug("branch changes unavailable", "error", err)
			return discovery.ModeAll, fallbackModeLabel, nil
		}
		return discovery.ModeBranchDiff, discovery.ModeBranchDiff.String(), nil
	}
}

func (m *CLIManager) requireRepo(ctx context.Context) error {
	if err := m.checkGit(); err != nil {
		return err
	}
	if !m.gitter.IsRepo(ctx) {
		return &repo.NotARepositoryError{Dir: m.root}
	}
	return nil
}

// Watch formats the selection once, then watches for further edits. Formatting
// failures are reported without ending the watch.
func (m *CLIManager) Watch(ctx context.Context, sel Selection, ready chan<- struct{}) error {
	files, err := m.formatOnce(ctx, sel)
	var failures *FormatFailuresError
	switch {
	case errors.Is(err, context.Canceled):
		m.logger.Info("Interrupted by user")
		return nil
	case err != nil && !errors.As(err, &failures):
		return err
	}

	stamps := watch.NewModTimes()
	for _, f := range files {
		stamps.Record(f)
	}

	inScope := m.inputScope(sel)
	accept := func(path string) bool {
		return inScope(path) && len(m.filter.Select(m.root, []string{path})) == 1
	}
	w := watch.NewWatcher(m.watchRoots(sel), m.cfg.SkippedDirs, accept, m.logger)

	if ready != nil {
		go func() {
			select {
			case <-w.Ready:
			case <-ctx.Done():
				return
			}
			select {
			case ready <- struct{}{}:
			case <-ctx.Done():
			}
		}()
	}

	err = w.Watch(ctx, func(paths []string) {
		var changed []string
		for _, p := range paths {
			if stamps.Changed(p) {
				changed = append(changed, p)
			}
		}
		if len(changed) == 0 {
			return
		}

		rep := report.NewTextReporter(m.out, m.useColour)
		rep.Sep()
		rep.Files(changed)
		if rErr := m.runAndReport(ctx, rep, changed); rErr != nil && ctx.Err() == nil {
			m.logger.Debug("watch pass failed", "error", rErr)
		}
		for _, p := range changed {
			stamps.Record(p)
		}
	})

	if errors.Is(err, context.Canceled) {
		m.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

// inputScope limits watched changes to the explicit inputs: an input file
// matches only itself, an input directory matches everything beneath it.
// Without explicit inputs every path is in scope.
func (m *CLIManager) inputScope(sel Selection) func(string) bool {
	if len(sel.Inputs) == 0 {
		return func(string) bool { return true }
	}

	var files, dirs []string
	for _, in := range sel.Inputs {
		abs, err := fsh.Abs(in)
		if err != nil {
			continue
		}
		if info, sErr := os.Stat(abs); sErr == nil && info.IsDir() {
			dirs = append(dirs, abs)
		} else {
			files = append(files, abs)
		}
	}

	return func(path string) bool {
		path = filepath.Clean(path)
		if slices.Contains(files, path) {
			return true
		}
		for _, dir := range dirs {
			if fsh.IsWithin(path, dir) {
				return true
			}
		}
		return false
	}
}

// watchRoots returns the directories to watch: the explicit input directories
// (or the parents of explicit files), otherwise the format dirs under root.
func (m *CLIManager) watchRoots(sel Selection) []string {
	var roots []string
	if len(sel.Inputs) > 0 {
		for _, in := range sel.Inputs {
			abs, err := filepath.Abs(in)
			if err != nil {
				continue
			}
			if info, sErr := os.Stat(abs); sErr == nil && !info.IsDir() {
				abs = filepath.Dir(abs)
			}
			roots = append(roots, abs)
		}
		return roots
	}

	if len(m.cfg.FormatDirs) == 0 {
		return []string{m.root}
	}
	for _, dir := range m.cfg.FormatDirs {
		roots = append(roots, filepath.Join(m.root, dir))
	}
	return roots
}
