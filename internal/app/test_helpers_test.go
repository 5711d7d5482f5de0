package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Format(ctx context.Context, sel Selection) error {
	args := m.Called(ctx, sel)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, sel Selection, ready chan<- struct{}) error {
	args := m.Called(ctx, sel, ready)
	return args.Error(0)
}

// safeBuffer is a thread-safe wrapper around bytes.Buffer for use in concurrent tests.
type safeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *safeBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// waitFor polls the buffer until it contains want or timeout is reached.
func (s *safeBuffer) waitFor(want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if bytes.Contains([]byte(s.String()), []byte(want)) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// fakeFormatter writes a shell script standing in for clang-format. It appends
// "<file>" lines to the returned log and fails for files whose name contains "bad".
func fakeFormatter(t *testing.T) (tool, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake formatter is a shell script")
	}

	dir := t.TempDir()
	calls = filepath.Join(dir, "calls.log")
	tool = filepath.Join(dir, "clang-format")
	script := `#!/bin/sh
echo "$2" >> "` + calls + `"
case "$2" in
  *bad*) echo "cannot format $2" >&2; exit 1 ;;
esac
exit 0
`
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))
	return tool, calls
}

// writeTree creates empty files under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("int x;\n"), 0o600))
	}
}

func readCalls(t *testing.T, calls string) string {
	t.Helper()
	data, err := os.ReadFile(calls)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
