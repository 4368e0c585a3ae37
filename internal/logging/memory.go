package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is one retained log line
type Entry struct {
	Time    time.Time    `json:"time"`
	Level   logrus.Level `json:"level"`
	Message string       `json:"message"`
}

// MemoryHook keeps the most recent log entries for display. Fields are
// folded into the message as key=value pairs.
type MemoryHook struct {
	capacity int

	mu      sync.Mutex
	entries []Entry
}

// NewMemoryHook creates a hook that retains at most capacity entries
func NewMemoryHook(capacity int) *MemoryHook {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryHook{capacity: capacity}
}

// Levels implements logrus.Hook
func (h *MemoryHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *MemoryHook) Fire(e *logrus.Entry) error {
	var b strings.Builder
	b.WriteString(e.Message)
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, Entry{Time: e.Time, Level: e.Level, Message: b.String()})
	return nil
}

// Entries returns a copy of the retained entries, oldest first
func (h *MemoryHook) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}
