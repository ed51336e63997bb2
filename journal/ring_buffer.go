package journal

import (
	"slices"
	"sync"
)

// RingBuffer keeps the most recent entries up to a fixed capacity. It is safe
// for concurrent use.
type RingBuffer[T any] struct {
	mu      sync.RWMutex
	entries []T
	// next is the slot written by the following Add.
	next int
	full bool
}

// NewRingBuffer creates a ring buffer holding up to capacity entries.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("journal: ring buffer capacity must be positive")
	}
	return &RingBuffer[T]{entries: make([]T, capacity)}
}

// Add appends entry, replacing the oldest one when the buffer is full.
func (rb *RingBuffer[T]) Add(entry T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.next] = entry
	rb.next = (rb.next + 1) % len(rb.entries)
	if rb.next == 0 {
		rb.full = true
	}
}

// Last returns up to n of the most recent entries, oldest first.
func (rb *RingBuffer[T]) Last(n int) []T {
	return rb.LastMatching(n, nil)
}

// LastMatching returns up to n of the most recent entries match accepts,
// oldest first. A nil match accepts every entry.
func (rb *RingBuffer[T]) LastMatching(n int, match func(T) bool) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]T, 0, max(0, min(n, rb.len())))
	for i := rb.len() - 1; i >= 0 && len(result) < n; i-- {
		if entry := rb.at(i); match == nil || match(entry) {
			result = append(result, entry)
		}
	}
	slices.Reverse(result)
	return result
}

// Reset drops all entries.
func (rb *RingBuffer[T]) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	clear(rb.entries)
	rb.next = 0
	rb.full = false
}

// Len returns the number of entries held.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.len()
}

// Cap returns the maximum number of entries held.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.entries)
}

func (rb *RingBuffer[T]) len() int {
	if rb.full {
		return len(rb.entries)
	}
	return rb.next
}

// at returns the i-th oldest entry. The caller holds the lock.
func (rb *RingBuffer[T]) at(i int) T {
	if !rb.full {
		return rb.entries[i]
	}
	return rb.entries[(rb.next+i)%len(rb.entries)]
}
