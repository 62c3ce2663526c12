// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import "time"

// FrameTimings splits one frame into phases. The pacing algorithm never
// reads them; they exist for diagnostics.
type FrameTimings struct {
	// Input runs from waking out of the previous wait to the first stage
	// begin. Hosts typically poll and collect input here.
	Input time.Duration

	// Compute runs from the first stage begin to the last stage end.
	Compute time.Duration

	// PostFrame runs from the last stage end to the WaitForFrame call.
	PostFrame time.Duration

	// Sleep is the time actually spent inside WaitForFrame.
	Sleep time.Duration

	// Planned is the predicted sleep.
	Planned time.Duration
}

// Total returns the wall time of the frame.
func (ft FrameTimings) Total() time.Duration {
	return ft.Input + ft.Compute + ft.PostFrame + ft.Sleep
}

// StageSnapshot is a copy of one stage's state.
type StageSnapshot struct {
	Handle   StageHandle
	Name     string
	History  []time.Duration // oldest first
	Forecast time.Duration
	Running  bool
}

// Internals is a read-only view of a FramePacer for diagnostics overlays.
// Every method returns copies; nothing obtained from Internals can change
// pacing. It reads live state, so it shares the pacer's threading rule.
type Internals struct {
	p *FramePacer
}

// Stages returns a snapshot of every registered stage in handle order.
func (in *Internals) Stages() []StageSnapshot {
	t := in.p.tracker
	out := make([]StageSnapshot, t.Len())
	for i := range t.stages {
		s := &t.stages[i]
		out[i] = StageSnapshot{
			Handle:   StageHandle(i),
			Name:     s.name,
			History:  s.history.Values(),
			Forecast: s.forecast(t.window),
			Running:  s.running,
		}
	}
	return out
}

// Stage returns a snapshot of stage h.
func (in *Internals) Stage(h StageHandle) (StageSnapshot, error) {
	t := in.p.tracker
	s, err := t.stage("snapshot", h)
	if err != nil {
		return StageSnapshot{}, err
	}
	return StageSnapshot{
		Handle:   h,
		Name:     s.name,
		History:  s.history.Values(),
		Forecast: s.forecast(t.window),
		Running:  s.running,
	}, nil
}

// Forecast returns the current predicted length of the whole pipeline.
func (in *Internals) Forecast() time.Duration {
	return in.p.tracker.Total()
}

// SleepHistory returns the recent predicted sleeps, oldest first.
func (in *Internals) SleepHistory() []time.Duration {
	return in.p.sleeps.Values()
}

// Timings returns the recent frame timings, oldest first.
func (in *Internals) Timings() []FrameTimings {
	return in.p.timings.Values()
}

// Last returns the timings of the most recent frame.
func (in *Internals) Last() (FrameTimings, bool) {
	return in.p.timings.Back()
}

// Frames returns the number of completed WaitForFrame calls.
func (in *Internals) Frames() uint64 { return in.p.frames }

// Enabled reports the pacing toggle.
func (in *Internals) Enabled() bool { return in.p.enabled }

// Frequency returns the reported monitor frequency.
func (in *Internals) Frequency() float64 { return in.p.predictor.Frequency() }

// Interval returns the compensated refresh interval.
func (in *Internals) Interval() time.Duration { return in.p.predictor.Interval() }

// Reference returns the instant refresh prediction is anchored at.
func (in *Internals) Reference() time.Time { return in.p.predictor.Reference() }
