package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistorySize is how many save results the service remembers.
const DefaultHistorySize = 100

// SaveResult describes one completed save.
type SaveResult struct {
	ID       uuid.UUID
	Format   string
	Count    int
	Duration time.Duration
	SavedAt  time.Time
}

// history is a fixed-size ring of save results.
type history struct {
	mu      sync.Mutex
	entries []SaveResult
	next    int
	full    bool
}

func newHistory(size int) *history {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &history{entries: make([]SaveResult, size)}
}

func (h *history) add(r SaveResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = r
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// recent returns up to limit results, newest first. A non-positive limit
// returns everything retained.
func (h *history) recent(limit int) []SaveResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.next
	if h.full {
		n = len(h.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]SaveResult, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}
