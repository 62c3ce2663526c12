// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import (
	"fmt"
	"time"

	"github.com/gogpu/pacy/internal/ring"
)

const (
	// DefaultForecastWindow is the number of recent durations a stage
	// forecast looks at.
	DefaultForecastWindow = 10

	// DefaultStageHistory is the number of durations kept per stage for
	// introspection.
	DefaultStageHistory = 64
)

// StageHandle identifies one registered pipeline stage.
// Handles are dense indices and stay valid for the tracker's lifetime.
type StageHandle int

// stageStats is the per-stage state owned by a StageTracker.
type stageStats[T any] struct {
	name    string
	history *ring.Ring[time.Duration]

	// start is meaningful only while running is set.
	start   T
	running bool
}

// StageTracker records how long each pipeline stage takes and forecasts
// the next duration as the maximum of the most recent window of samples.
// The max, rather than a mean, keeps a single slow frame visible in the
// forecast until it leaves the window.
//
// StageTracker is generic over the timestamp type: any T whose Sub
// method yields a time.Duration works, e.g. time.Time or Ticks.
//
// StageTracker is not safe for concurrent use.
type StageTracker[T Timestamp[T]] struct {
	stages  []stageStats[T]
	window  int
	history int
}

// NewStageTracker creates a tracker that keeps history durations per
// stage and forecasts over the last window of them. Zero or negative
// values select DefaultStageHistory and DefaultForecastWindow. The
// history is never shorter than the window.
func NewStageTracker[T Timestamp[T]](history, window int) *StageTracker[T] {
	if window <= 0 {
		window = DefaultForecastWindow
	}
	if history <= 0 {
		history = DefaultStageHistory
	}
	if history < window {
		history = window
	}
	return &StageTracker[T]{window: window, history: history}
}

// Register adds a stage with an empty history.
func (t *StageTracker[T]) Register() StageHandle {
	return t.RegisterNamed("")
}

// RegisterNamed adds a stage with an empty history and a display name.
// An empty name is replaced by "stage<N>".
func (t *StageTracker[T]) RegisterNamed(name string) StageHandle {
	h := StageHandle(len(t.stages))
	if name == "" {
		name = fmt.Sprintf("stage%d", int(h))
	}
	t.stages = append(t.stages, stageStats[T]{
		name:    name,
		history: ring.New[time.Duration](t.history),
	})
	return h
}

// Len returns the number of registered stages.
func (t *StageTracker[T]) Len() int {
	return len(t.stages)
}

// Window returns the forecast window size.
func (t *StageTracker[T]) Window() int {
	return t.window
}

func (t *StageTracker[T]) stage(op string, h StageHandle) (*stageStats[T], error) {
	if h < 0 || int(h) >= len(t.stages) {
		return nil, stageError(op, h, ErrUnknownStage)
	}
	return &t.stages[h], nil
}

// Begin marks stage h as running from ts.
// It fails with ErrStageRunning if h is already running.
func (t *StageTracker[T]) Begin(h StageHandle, ts T) error {
	s, err := t.stage("begin", h)
	if err != nil {
		return err
	}
	if s.running {
		return stageError("begin", h, ErrStageRunning)
	}
	s.start = ts
	s.running = true
	return nil
}

// End marks stage h as finished at ts and records the elapsed duration.
// It fails with ErrStageNotRunning if h was not begun.
//
// A negative duration fails with ErrClockAnomaly. The stage returns to
// idle but the sample is not recorded.
func (t *StageTracker[T]) End(h StageHandle, ts T) (time.Duration, error) {
	s, err := t.stage("end", h)
	if err != nil {
		return 0, err
	}
	if !s.running {
		return 0, stageError("end", h, ErrStageNotRunning)
	}
	d := ts.Sub(s.start)
	var zero T
	s.start = zero
	s.running = false
	if d < 0 {
		return d, stageError("end", h, fmt.Errorf("%w: stage ended %v before it began", ErrClockAnomaly, -d))
	}
	s.history.Push(d)
	return d, nil
}

// Forecast returns the predicted duration of the next run of stage h:
// the maximum of the last Window recorded durations, or zero when
// nothing has been recorded yet.
func (t *StageTracker[T]) Forecast(h StageHandle) (time.Duration, error) {
	s, err := t.stage("forecast", h)
	if err != nil {
		return 0, err
	}
	return s.forecast(t.window), nil
}

func (s *stageStats[T]) forecast(window int) time.Duration {
	n := s.history.Len()
	var longest time.Duration
	for i := n - 1; i >= 0 && i >= n-window; i-- {
		if d := s.history.At(i); d > longest {
			longest = d
		}
	}
	return longest
}

// Total returns the sum of all stage forecasts. Stages run one after
// another, so the predicted pipeline latency is additive.
func (t *StageTracker[T]) Total() time.Duration {
	var total time.Duration
	for i := range t.stages {
		total += t.stages[i].forecast(t.window)
	}
	return total
}

// Running reports whether stage h has a pending begin.
func (t *StageTracker[T]) Running(h StageHandle) (bool, error) {
	s, err := t.stage("running", h)
	if err != nil {
		return false, err
	}
	return s.running, nil
}

// Name returns the display name of stage h.
func (t *StageTracker[T]) Name(h StageHandle) (string, error) {
	s, err := t.stage("name", h)
	if err != nil {
		return "", err
	}
	return s.name, nil
}

// History returns a copy of the recorded durations of stage h, oldest
// first.
func (t *StageTracker[T]) History(h StageHandle) ([]time.Duration, error) {
	s, err := t.stage("history", h)
	if err != nil {
		return nil, err
	}
	return s.history.Values(), nil
}

// Reset discards the history and any pending begin of stage h.
func (t *StageTracker[T]) Reset(h StageHandle) error {
	s, err := t.stage("reset", h)
	if err != nil {
		return err
	}
	var zero T
	s.history.Reset()
	s.start = zero
	s.running = false
	return nil
}
