// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import (
	"runtime"
	"time"
)

// DefaultSpinThreshold is the tail of a wait that SpinSleeper spins
// through instead of handing to the scheduler.
const DefaultSpinThreshold = time.Millisecond

// Sleeper blocks the calling goroutine for about d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SpinSleeper combines time.Sleep with a yielding spin for the final
// stretch of the wait. The OS timer wakes late by up to its slack, so the
// sleep stops threshold early and the remainder is spun out against the
// monotonic clock, trading CPU for precision.
type SpinSleeper struct {
	threshold time.Duration
}

// NewSpinSleeper creates a SpinSleeper spinning through the last
// threshold of every wait. A negative threshold is treated as zero,
// which degrades to plain time.Sleep.
func NewSpinSleeper(threshold time.Duration) *SpinSleeper {
	if threshold < 0 {
		threshold = 0
	}
	return &SpinSleeper{threshold: threshold}
}

// Threshold returns the spin tail length.
func (s *SpinSleeper) Threshold() time.Duration { return s.threshold }

// Sleep blocks until d has elapsed. It is not interruptible.
func (s *SpinSleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	if d > s.threshold {
		time.Sleep(d - s.threshold)
	}
	for time.Now().Before(deadline) {
		runtime.Gosched()
	}
}
