package service

import (
	"sort"
	"sync"
	"time"

	"joinfeed/internal/services/fresh/domain"
)

// Buffer is the bounded, time-windowed identifier store. All methods are
// safe for concurrent use; none holds the lock across I/O
type Buffer struct {
	mu      sync.Mutex
	entries map[string]domain.Entry

	window time.Duration
	max    int

	now func() time.Time // test seam
}

// NewBuffer constructs an empty buffer with the given freshness window
// and capacity bound
func NewBuffer(window time.Duration, max int) *Buffer {
	if window <= 0 {
		panic("fresh.Buffer requires a positive window")
	}
	if max <= 0 {
		panic("fresh.Buffer requires a positive capacity")
	}
	return &Buffer{
		entries: make(map[string]domain.Entry, max),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Accept inserts identifier or refreshes its ObservedAt when already
// present. Re-observation keeps an identifier fresh for as long as it
// keeps appearing upstream; "currently active" wins over "first sighted".
// Returns true when the identifier was not in the buffer before
func (b *Buffer) Accept(identifier, source string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, existed := b.entries[identifier]
	b.entries[identifier] = domain.Entry{
		Identifier: identifier,
		ObservedAt: b.now(),
		Source:     source,
	}
	if !existed && len(b.entries) > b.max {
		b.dropOldestLocked(len(b.entries) - b.max)
	}
	return !existed
}

// EvictExpired removes every entry older than the window. Called both
// before serving a read and from the background sweep; either trigger
// alone leaves a gap (stale serves between sweeps, or unbounded growth
// when never read)
func (b *Buffer) EvictExpired() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-b.window)
	n := 0
	for id, e := range b.entries {
		if e.ObservedAt.Before(cutoff) {
			delete(b.entries, id)
			n++
		}
	}
	return n
}

// Snapshot returns the non-expired entries, most-recently-observed first.
// The returned slice is a copy; serialization never races buffer writes
func (b *Buffer) Snapshot() []domain.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-b.window)
	out := make([]domain.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		if !e.ObservedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ObservedAt.Equal(out[j].ObservedAt) {
			return out[i].Identifier < out[j].Identifier
		}
		return out[i].ObservedAt.After(out[j].ObservedAt)
	})
	return out
}

// Len reports the current entry count, expired included
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Window reports the configured freshness window
func (b *Buffer) Window() time.Duration { return b.window }

// dropOldestLocked removes the n oldest entries regardless of window.
// Caller holds the lock
func (b *Buffer) dropOldestLocked(n int) {
	type aged struct {
		id string
		at time.Time
	}
	all := make([]aged, 0, len(b.entries))
	for id, e := range b.entries {
		all = append(all, aged{id: id, at: e.ObservedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	for i := 0; i < n && i < len(all); i++ {
		delete(b.entries, all[i].id)
	}
}
