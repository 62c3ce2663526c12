// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ring provides a generic fixed-capacity ring buffer.
//
// Ring keeps the most recent values in insertion order. Once full, each
// Push evicts the oldest value. It backs the bounded duration histories
// of the pacer.
//
// Ring is not safe for concurrent use.
package ring

// Ring is a bounded FIFO of values. Index 0 is the oldest value.
type Ring[T any] struct {
	buf   []T
	start int
	len   int
}

// New creates an empty ring holding at most capacity values.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Len returns the number of stored values.
func (r *Ring[T]) Len() int {
	return r.len
}

// Cap returns the maximum number of stored values.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Push appends v, evicting the oldest value when the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.len < len(r.buf) {
		r.buf[(r.start+r.len)%len(r.buf)] = v
		r.len++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// At returns the i-th value, 0 being the oldest.
// Panics if i is out of range.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.len {
		panic("ring: index out of range")
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

// Back returns the most recent value.
// Returns zero value and false if the ring is empty.
func (r *Ring[T]) Back() (T, bool) {
	if r.len == 0 {
		var zero T
		return zero, false
	}
	return r.At(r.len - 1), true
}

// Values returns a copy of the stored values, oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.len)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Reset removes all values without releasing the backing storage.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start = 0
	r.len = 0
}
