package watch

import (
	"os"
	"sync"
	"time"
)

// ModTimes remembers the modification time of files srcfmt has just formatted,
// so the writes made by the formatter itself are not treated as user edits.
type ModTimes struct {
	mu    sync.Mutex
	stamp map[string]time.Time
}

func NewModTimes() *ModTimes {
	return &ModTimes{stamp: map[string]time.Time{}}
}

// Record stores the current modification time of path.
func (m *ModTimes) Record(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp[path] = info.ModTime()
}

// Changed reports whether path was modified since it was last recorded. Unknown
// or unreadable paths count as changed.
func (m *ModTimes) Changed(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.stamp[path]
	return !ok || !info.ModTime().Equal(last)
}
