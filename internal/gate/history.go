package gate

import (
	"sync"
	"time"
)

// History is a bounded in-memory ring of recent gate decisions, kept for
// debugging and diagnostics only. Nothing in the decision rule reads it.
//
// The ring enforces both a maximum entry count and a maximum age. Entries
// that exceed either limit are evicted automatically on every [Add] call.
//
// All methods are safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries []Decision
	maxSize int
	maxAge  time.Duration
}

// NewHistory creates a ring that retains at most maxSize decisions and
// evicts decisions older than maxAge.
func NewHistory(maxSize int, maxAge time.Duration) *History {
	return &History{
		entries: make([]Decision, 0, maxSize),
		maxSize: maxSize,
		maxAge:  maxAge,
	}
}

// Add appends a decision and evicts entries that exceed the configured
// maximum size or age.
func (h *History) Add(d Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, d)
	h.evict()
}

// Recent returns up to maxEntries decisions within the configured age
// window, in chronological order (oldest first).
func (h *History) Recent(maxEntries int) []Decision {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cutoff := time.Now().Add(-h.maxAge)
	result := make([]Decision, 0, maxEntries)

	for i := len(h.entries) - 1; i >= 0 && len(result) < maxEntries; i-- {
		d := h.entries[i]
		if d.At.Before(cutoff) {
			continue
		}
		result = append(result, d)
	}

	// Reverse to chronological order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// Len returns the number of currently retained decisions.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// evict removes entries that are too old or exceed maxSize.
// Must be called with h.mu held.
//
// Surviving entries are copied to a fresh backing array so evicted entries
// do not pin memory for the lifetime of the session.
func (h *History) evict() {
	cutoff := time.Now().Add(-h.maxAge)

	start := 0
	for start < len(h.entries) && h.entries[start].At.Before(cutoff) {
		start++
	}

	keep := h.entries[start:]

	if len(keep) > h.maxSize {
		keep = keep[len(keep)-h.maxSize:]
	}

	if len(keep) != len(h.entries) {
		fresh := make([]Decision, len(keep), h.maxSize+1)
		copy(fresh, keep)
		h.entries = fresh
	}
}
