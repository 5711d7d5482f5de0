// Package watch re-triggers formatting when source files change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// NoWatchRootsError reports that none of the requested directories exist.
type NoWatchRootsError struct {
	Roots []string
}

func (e *NoWatchRootsError) Error() string {
	return "nothing to watch: none of these directories exist: " + strings.Join(e.Roots, ", ")
}

// Watcher monitors directory trees and reports changed files in batches.
type Watcher struct {
	roots       []string
	skippedDirs map[string]struct{}
	accept      func(path string) bool
	logger      *slog.Logger
	Ready       chan struct{}
	Debounce    time.Duration

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher over roots. Directories whose name starts with a
// dot or appears in skippedDirs are not watched. accept decides which changed
// files are reported; nil accepts everything.
func NewWatcher(roots, skippedDirs []string, accept func(string) bool, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}
	skipped := make(map[string]struct{}, len(skippedDirs))
	for _, d := range skippedDirs {
		skipped[d] = struct{}{}
	}
	return &Watcher{
		roots:       roots,
		skippedDirs: skipped,
		accept:      accept,
		logger:      logger.With("component", "watcher"),
		Ready:       make(chan struct{}),
		Debounce:    DefaultDebounce,
		newWatcher:  fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled, calling callback with the sorted set of
// files changed during each debounce window. callback runs on the calling
// goroutine, so batches never overlap.
func (w *Watcher) Watch(ctx context.Context, callback func(paths []string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, root := range w.roots {
		info, sErr := os.Stat(root)
		if sErr != nil || !info.IsDir() {
			w.logger.Debug("watch root not found", "root", root)
			continue
		}
		if err := w.addRecursive(watcher, root); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return &NoWatchRootsError{Roots: w.roots}
	}

	w.logger.Info("Watching for changes (press Ctrl+C to stop)")
	w.logger.Debug("watch roots", "roots", w.roots)
	if w.Ready != nil {
		close(w.Ready)
	}

	pending := map[string]struct{}{}
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path, relevant := w.handleEvent(watcher, event); relevant {
				pending[path] = struct{}{}
				flush = time.After(w.Debounce)
			}
		case <-flush:
			flush = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			slices.Sort(batch)
			callback(batch)
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to the
// watch; relevant file writes are returned.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && !w.skipDir(filepath.Base(event.Name)) {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		return "", false
	}
	if !info.Mode().IsRegular() || !w.accept(event.Name) {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := w.skippedDirs[name]
	return skip
}

// addRecursive adds the given path and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
