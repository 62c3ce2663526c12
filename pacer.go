// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/pacy/internal/ring"
)

// FramePacer decides how long a render loop sleeps between frames so the
// next frame's work lands on the next reachable refresh boundary.
//
// The host registers its pipeline stages once, brackets each stage's work
// with BeginStage and EndStage, and calls WaitForFrame at the end of every
// frame. The pacer runs no goroutine and no timer; WaitForFrame is its
// only blocking call.
//
// FramePacer is not safe for concurrent use. Drive it from the thread
// that runs the render loop.
type FramePacer struct {
	enabled bool
	clock   Clock
	sleeper Sleeper
	log     *slog.Logger

	tracker   *StageTracker[time.Time]
	predictor *RefreshPredictor

	sleeps  *ring.Ring[time.Duration]
	timings *ring.Ring[FrameTimings]
	frames  uint64

	// Frame markers for the diagnostic phase split. Zero means unset.
	wake       time.Time
	firstBegin time.Time
	lastEnd    time.Time
}

// New creates a pacer for a display reporting hz. It fails with
// ErrInvalidConfiguration if hz is not a usable frequency.
func New(hz float64, opts ...Option) (*FramePacer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = SystemClock()
	}
	if o.sleeper == nil {
		o.sleeper = NewSpinSleeper(DefaultSpinThreshold)
	}
	if o.logger == nil {
		o.logger = newNopLogger()
	}

	now := o.clock.Now()
	reference := o.reference
	if reference.IsZero() {
		reference = now
	}
	predictor, err := NewRefreshPredictor(hz, reference)
	if err != nil {
		return nil, err
	}

	tracker := NewStageTracker[time.Time](o.history, o.window)
	p := &FramePacer{
		enabled:   o.enabled,
		clock:     o.clock,
		sleeper:   o.sleeper,
		log:       o.logger,
		tracker:   tracker,
		predictor: predictor,
		sleeps:    ring.New[time.Duration](tracker.history),
		timings:   ring.New[FrameTimings](tracker.history),
		wake:      now,
	}
	p.log.Debug("pacy: pacer created",
		"frequency", hz,
		"interval", predictor.Interval(),
		"window", tracker.Window(),
		"enabled", p.enabled)
	return p, nil
}

// RegisterStage adds a pipeline stage and returns its handle.
func (p *FramePacer) RegisterStage() StageHandle {
	return p.RegisterNamedStage("")
}

// RegisterNamedStage adds a pipeline stage with a display name for
// diagnostics.
func (p *FramePacer) RegisterNamedStage(name string) StageHandle {
	h := p.tracker.RegisterNamed(name)
	p.log.Debug("pacy: stage registered", "stage", int(h), "name", p.stageName(h))
	return h
}

func (p *FramePacer) stageName(h StageHandle) string {
	name, _ := p.tracker.Name(h)
	return name
}

// BeginStage marks stage h as started at now.
// Usage errors from the tracker are returned unchanged.
func (p *FramePacer) BeginStage(h StageHandle, now time.Time) error {
	if err := p.tracker.Begin(h, now); err != nil {
		return err
	}
	if p.firstBegin.IsZero() {
		p.firstBegin = now
	}
	return nil
}

// EndStage marks stage h as finished at now and records its duration.
// Usage errors and ErrClockAnomaly from the tracker are returned
// unchanged.
func (p *FramePacer) EndStage(h StageHandle, now time.Time) error {
	if _, err := p.tracker.End(h, now); err != nil {
		if errors.Is(err, ErrClockAnomaly) {
			p.log.Warn("pacy: stage ended before it began", "stage", int(h), "name", p.stageName(h), "err", err)
		}
		return err
	}
	if now.After(p.lastEnd) {
		p.lastEnd = now
	}
	return nil
}

// SetMonitorFrequency updates the reported display frequency, e.g. after
// the window moved to another monitor. A rejected value keeps the last
// valid frequency.
func (p *FramePacer) SetMonitorFrequency(hz float64) error {
	old := p.predictor.Frequency()
	if err := p.predictor.SetFrequency(hz); err != nil {
		p.log.Warn("pacy: monitor frequency rejected", "frequency", hz, "kept", old, "err", err)
		return err
	}
	if hz != old {
		p.log.Info("pacy: monitor frequency changed",
			"from", old,
			"to", hz,
			"interval", p.predictor.Interval())
	}
	return nil
}

// SetReference re-anchors refresh prediction at an instant known to lie
// on a refresh boundary.
func (p *FramePacer) SetReference(t time.Time) {
	p.predictor.SetReference(t)
	p.log.Debug("pacy: reference re-anchored", "reference", t)
}

// SetEnabled turns pacing on or off. The value is read at the start of
// every WaitForFrame.
func (p *FramePacer) SetEnabled(enabled bool) {
	if enabled != p.enabled {
		p.log.Info("pacy: pacing toggled", "enabled", enabled)
	}
	p.enabled = enabled
}

// Enabled reports whether WaitForFrame blocks.
func (p *FramePacer) Enabled() bool { return p.enabled }

// Now reads the pacer's clock.
func (p *FramePacer) Now() time.Time { return p.clock.Now() }

// WaitForFrame ends the current frame. It forecasts the whole pipeline
// as the sum of every stage forecast, predicts the wait that makes that
// work finish on a refresh boundary, records the prediction and, when
// pacing is enabled, blocks for it.
//
// It returns the predicted sleep, which is recorded even when pacing is
// disabled.
func (p *FramePacer) WaitForFrame() time.Duration {
	enabled := p.enabled
	total := p.tracker.Total()

	start := p.clock.Now()
	planned, err := p.predictor.Until(total, start)
	if err != nil {
		// New and SetMonitorFrequency reject every frequency Until
		// cannot handle.
		p.log.Warn("pacy: prediction failed, not sleeping", "err", err)
		planned = 0
	}
	p.sleeps.Push(planned)

	if enabled {
		p.sleeper.Sleep(planned)
	}
	wake := p.clock.Now()

	p.timings.Push(p.frameTimings(start, wake, planned))
	p.frames++
	p.wake = wake
	p.firstBegin = time.Time{}
	p.lastEnd = time.Time{}
	return planned
}

// frameTimings splits the frame that ends at start into its phases.
func (p *FramePacer) frameTimings(start, wake time.Time, planned time.Duration) FrameTimings {
	ft := FrameTimings{
		Sleep:   wake.Sub(start),
		Planned: planned,
	}
	switch {
	case p.firstBegin.IsZero():
		ft.PostFrame = start.Sub(p.wake)
	case p.lastEnd.IsZero():
		// A stage is still open: everything after the first begin is compute.
		ft.Input = p.firstBegin.Sub(p.wake)
		ft.Compute = start.Sub(p.firstBegin)
	default:
		ft.Input = p.firstBegin.Sub(p.wake)
		ft.Compute = p.lastEnd.Sub(p.firstBegin)
		ft.PostFrame = start.Sub(p.lastEnd)
	}
	return ft
}

// Internals returns a read-only view of the pacer's histories.
func (p *FramePacer) Internals() *Internals {
	return &Internals{p: p}
}
