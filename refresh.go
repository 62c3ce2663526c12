// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import (
	"fmt"
	"math"
	"time"
)

// RefreshPredictor infers refresh boundaries from a reported display
// frequency and a reference instant assumed to lie on a boundary. It
// never observes a real vblank.
//
// Drivers usually report the frequency rounded to an integer while the
// panel runs slightly slower (59.94 Hz reported as 60). The predictor
// assumes the true rate sits halfway below the rounded value, so the
// interval is 1/(round(hz)-0.5).
//
// TODO: replace the halfway heuristic with an estimate fitted to measured
// inter-present deltas when the host can supply present timestamps.
type RefreshPredictor struct {
	frequency float64
	reference time.Time
	interval  time.Duration
}

// NewRefreshPredictor creates a predictor for a display reporting hz,
// anchored at reference.
func NewRefreshPredictor(hz float64, reference time.Time) (*RefreshPredictor, error) {
	p := &RefreshPredictor{reference: reference}
	if err := p.SetFrequency(hz); err != nil {
		return nil, err
	}
	return p, nil
}

// refreshInterval returns the compensated interval for a reported
// frequency. It fails when the frequency cannot describe a periodic
// display.
func refreshInterval(hz float64) (time.Duration, error) {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return 0, fmt.Errorf("%w: reported frequency %v Hz must be positive and finite", ErrInvalidConfiguration, hz)
	}
	rate := math.Floor(hz+0.5) - 0.5
	if rate <= 0 {
		return 0, fmt.Errorf("%w: reported frequency %v Hz is below the 0.5 Hz minimum", ErrInvalidConfiguration, hz)
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		return 0, fmt.Errorf("%w: reported frequency %v Hz yields no usable interval", ErrInvalidConfiguration, hz)
	}
	return interval, nil
}

// ValidateFrequency reports whether SetFrequency would accept hz.
func ValidateFrequency(hz float64) error {
	_, err := refreshInterval(hz)
	return err
}

// SetFrequency updates the reported frequency. It takes effect on the
// next prediction. A rejected value leaves the predictor unchanged.
func (p *RefreshPredictor) SetFrequency(hz float64) error {
	interval, err := refreshInterval(hz)
	if err != nil {
		return err
	}
	p.frequency = hz
	p.interval = interval
	return nil
}

// SetReference re-anchors the predictor on an instant known to be a
// refresh boundary, e.g. an observed present completion.
func (p *RefreshPredictor) SetReference(t time.Time) {
	p.reference = t
}

// Frequency returns the last accepted reported frequency.
func (p *RefreshPredictor) Frequency() float64 { return p.frequency }

// Reference returns the instant treated as a known boundary.
func (p *RefreshPredictor) Reference() time.Time { return p.reference }

// Interval returns the compensated refresh interval.
func (p *RefreshPredictor) Interval() time.Duration { return p.interval }

// Until returns how long to wait from now so that compute more time of
// work ends exactly on a refresh boundary: now+wait+compute is congruent
// to the reference modulo the interval. The result lies in [0, Interval).
//
// When compute spans several intervals the result targets the first
// boundary after the work finishes; no attempt is made to catch up.
// Negative compute is treated as zero.
func (p *RefreshPredictor) Until(compute time.Duration, now time.Time) (time.Duration, error) {
	period := int64(p.interval)
	if period <= 0 {
		return 0, fmt.Errorf("%w: predictor has no reported frequency", ErrInvalidConfiguration)
	}
	if compute < 0 {
		compute = 0
	}

	elapsed := int64(now.Add(compute).Sub(p.reference))
	phase := elapsed % period
	if phase < 0 {
		phase += period
	}
	if phase == 0 {
		return 0, nil
	}
	return time.Duration(period - phase), nil
}
