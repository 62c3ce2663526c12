// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package harness

import (
	"sync"
	"time"
)

// EventKind selects what an Event asks the loop to do.
type EventKind int

const (
	// EventTogglePacing flips the pacer's enabled toggle.
	EventTogglePacing EventKind = iota
	// EventSetFrequency reports a new monitor frequency.
	EventSetFrequency
	// EventQuit stops the loop before its next frame.
	EventQuit
)

func (k EventKind) String() string {
	switch k {
	case EventTogglePacing:
		return "toggle-pacing"
	case EventSetFrequency:
		return "set-frequency"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is a host input forwarded from the window's event thread to the
// thread that drives the pacer.
type Event struct {
	Kind      EventKind
	Frequency float64 // EventSetFrequency only
	At        time.Time
}

// EventQueue is an unbounded multi-producer, single-consumer queue.
// Events from one producer are drained in the order they were pushed.
//
// EventQueue is safe for concurrent use. The zero value is ready to use.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends e. It never blocks on the consumer.
func (q *EventQueue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain appends all queued events to dst in order and empties the queue.
func (q *EventQueue) Drain(dst []Event) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	dst = append(dst, q.events...)
	clear(q.events)
	q.events = q.events[:0]
	return dst
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
