package util

import "sync"

// RingBuffer holds the newest cap items. Push evicts the oldest item once
// the buffer is full. Safe for concurrent use.
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	buf   []T
	start int
	n     int
}

// NewRingBuffer panics if capacity is not positive.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("util: ring buffer capacity must be positive")
	}
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

func (r *RingBuffer[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[(r.start+r.n)%len(r.buf)] = item
	if r.n < len(r.buf) {
		r.n++
		return
	}
	r.start = (r.start + 1) % len(r.buf)
}

// Snapshot copies the stored items, oldest first.
func (r *RingBuffer[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, r.n)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.n
}

func (r *RingBuffer[T]) Cap() int {
	return len(r.buf)
}
