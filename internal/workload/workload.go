// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package workload generates synthetic per-stage CPU work for the stress
// hosts. A stage costs Base plus uniform jitter, and occasionally a spike,
// which gives the pacer's max-of-window forecast something to react to.
package workload

import (
	"math/rand/v2"
	"runtime"
	"time"
)

// Spec describes the cost of one stage.
type Spec struct {
	Name   string
	Base   time.Duration
	Jitter time.Duration // uniform in [-Jitter, +Jitter]

	// Spike is added with probability SpikeChance per frame.
	Spike       time.Duration
	SpikeChance float64
}

// Generator draws stage costs from a seeded source, so runs are
// reproducible.
//
// Generator is not safe for concurrent use.
type Generator struct {
	specs []Spec
	rng   *rand.Rand
}

// NewGenerator creates a generator for specs seeded with seed.
func NewGenerator(seed uint64, specs ...Spec) *Generator {
	return &Generator{
		specs: specs,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Len returns the number of stages.
func (g *Generator) Len() int { return len(g.specs) }

// Spec returns the i-th stage spec.
func (g *Generator) Spec(i int) Spec { return g.specs[i] }

// Next draws the cost of the next run of stage i. It never returns a
// negative duration.
func (g *Generator) Next(i int) time.Duration {
	s := g.specs[i]
	d := s.Base
	if s.Jitter > 0 {
		d += time.Duration(g.rng.Int64N(int64(2*s.Jitter)+1)) - s.Jitter
	}
	if s.Spike > 0 && s.SpikeChance > 0 && g.rng.Float64() < s.SpikeChance {
		d += s.Spike
	}
	return max(d, 0)
}

// Burn keeps the CPU busy for d, yielding between clock reads.
func Burn(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		runtime.Gosched()
	}
}
