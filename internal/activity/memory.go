package activity

import (
	"context"
	"sync"
)

// MemoryLog keeps the most recent entries in a fixed-size ring.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func NewMemoryLog(size int) *MemoryLog {
	if size <= 0 {
		size = 1
	}
	return &MemoryLog{entries: make([]Entry, size)}
}

func (m *MemoryLog) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Entries returns a copy of the retained entries, oldest first.
func (m *MemoryLog) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return append([]Entry(nil), m.entries[:m.next]...)
	}
	out := make([]Entry, 0, len(m.entries))
	out = append(out, m.entries[m.next:]...)
	return append(out, m.entries[:m.next]...)
}
