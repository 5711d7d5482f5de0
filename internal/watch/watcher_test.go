package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) (batches chan []string, done chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	w.Debounce = 20 * time.Millisecond
	batches = make(chan []string, 100)
	done = make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(paths []string) {
			batches <- paths
		})
	}()

	select {
	case <-w.Ready:
	case err := <-done:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not become ready in time")
	}
	return batches, done
}

// waitFor keeps writing path until a batch containing it arrives. It returns
// every path reported meanwhile.
func waitFor(t *testing.T, batches chan []string, path string) []string {
	t.Helper()
	var seen []string
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("int x;\n"), 0o600)
		deadline := time.After(200 * time.Millisecond)
		for {
			select {
			case b := <-batches:
				seen = append(seen, b...)
				for _, p := range b {
					if p == path {
						return true
					}
				}
			case <-deadline:
				return false
			}
		}
	}, 5*time.Second, 10*time.Millisecond)
	return seen
}

func acceptCpp(path string) bool {
	return strings.HasSuffix(path, ".cpp")
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	t.Run("reports changed files", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		batches, _ := startWatcher(t, NewWatcher([]string{root}, nil, acceptCpp, nil))

		waitFor(t, batches, filepath.Join(root, "main.cpp"))
	})

	t.Run("ignores rejected and skipped files", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

		batches, _ := startWatcher(t, NewWatcher([]string{root}, []string{"build"}, acceptCpp, nil))

		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(root, "build", "gen.cpp"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "hook.cpp"), []byte("x"), 0o600))

		marker := filepath.Join(root, "marker.cpp")
		for _, p := range waitFor(t, batches, marker) {
			assert.Equal(t, marker, p)
		}
	})

	t.Run("watches new directories", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		batches, _ := startWatcher(t, NewWatcher([]string{root}, nil, acceptCpp, nil))

		sub := filepath.Join(root, "core", "gfx")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		waitFor(t, batches, filepath.Join(sub, "ctx.cpp"))
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		w := NewWatcher([]string{t.TempDir()}, nil, nil, nil)

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, func([]string) {}) }()
		<-w.Ready
		cancel()

		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("missing roots", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "nope")
		w := NewWatcher([]string{missing}, nil, nil, nil)

		err := w.Watch(context.Background(), func([]string) {})
		var target *NoWatchRootsError
		require.ErrorAs(t, err, &target)
		assert.Contains(t, err.Error(), missing)
	})
}

func TestModTimes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	m := NewModTimes()
	assert.True(t, m.Changed(path), "unknown files count as changed")

	m.Record(path)
	assert.False(t, m.Changed(path))

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, m.Changed(path))

	assert.True(t, m.Changed(filepath.Join(t.TempDir(), "missing.cpp")))
	m.Record(filepath.Join(t.TempDir(), "missing.cpp"))
}
