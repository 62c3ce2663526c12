// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import "time"

// Timestamp is the capability a stage timestamp needs: subtracting an
// earlier value yields the elapsed duration. time.Time satisfies it, and
// so does Ticks.
type Timestamp[T any] interface {
	Sub(T) time.Duration
}

// Ticks is a raw nanosecond counter, for hosts that time stages with an
// integer clock (a GPU timestamp query, a TSC read, a simulation step
// counter) instead of wall-clock instants.
type Ticks int64

// Sub returns t-u as a duration.
func (t Ticks) Sub(u Ticks) time.Duration {
	return time.Duration(t - u)
}

// Clock supplies the current instant. The pacer reads it when predicting
// and when timing its own sleep.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the process monotonic clock.
func SystemClock() Clock { return systemClock{} }
