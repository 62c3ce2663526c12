// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package harness

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pacy"
)

// Report summarizes a run.
type Report struct {
	Frames     int
	Misses     int // frames whose work outran one refresh interval
	TotalSleep time.Duration
	MaxSleep   time.Duration
	MaxCompute time.Duration
	Interval   time.Duration
}

// add accounts one finished frame.
func (r *Report) add(ft pacy.FrameTimings, interval time.Duration) {
	r.Frames++
	r.TotalSleep += ft.Sleep
	r.MaxSleep = max(r.MaxSleep, ft.Sleep)
	r.MaxCompute = max(r.MaxCompute, ft.Compute)
	r.Interval = interval
	if ft.Input+ft.Compute+ft.PostFrame > interval {
		r.Misses++
	}
}

// MeanSleep returns the average realized sleep per frame.
func (r Report) MeanSleep() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.TotalSleep / time.Duration(r.Frames)
}

// MissRate returns the fraction of frames that missed.
func (r Report) MissRate() float64 {
	if r.Frames == 0 {
		return 0
	}
	return float64(r.Misses) / float64(r.Frames)
}

func (r Report) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("frames=%d misses=%d (%.2f%%) interval=%v sleep mean=%v max=%v compute max=%v",
		r.Frames, r.Misses, 100*r.MissRate(), r.Interval, r.MeanSleep(), r.MaxSleep, r.MaxCompute)
}
