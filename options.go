package pacy

import (
	"log/slog"
	"time"
)

// Option configures a FramePacer during creation.
//
// Example:
//
//	// Default: pacing on, system clock, hybrid spin sleeper
//	pacer, err := pacy.New(60)
//
//	// Uncapped profiling run with a longer introspection history
//	pacer, err := pacy.New(144, pacy.WithEnabled(false), pacy.WithHistoryCapacity(512))
type Option func(*options)

// options holds optional configuration for FramePacer creation.
type options struct {
	enabled   bool
	clock     Clock
	sleeper   Sleeper
	logger    *slog.Logger
	reference time.Time
	history   int
	window    int
}

// defaultOptions returns the default pacer options.
func defaultOptions() options {
	return options{
		enabled: true,
		clock:   nil, // SystemClock
		sleeper: nil, // SpinSleeper with DefaultSpinThreshold
		logger:  nil, // silent
		history: DefaultStageHistory,
		window:  DefaultForecastWindow,
	}
}

// WithEnabled sets the initial state of the pacing toggle.
// A disabled pacer still predicts and records, but never blocks.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

// WithClock sets the clock the pacer reads at wait time.
// Stage timestamps passed by the host should come from the same clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSleeper sets how the pacer blocks.
//
// Example:
//
//	// Plain scheduler sleep, no spinning
//	pacer, err := pacy.New(60, pacy.WithSleeper(pacy.NewSpinSleeper(0)))
func WithSleeper(s Sleeper) Option {
	return func(o *options) {
		o.sleeper = s
	}
}

// WithReference anchors refresh prediction at t instead of the
// construction instant. Use it when the host observed a real present.
func WithReference(t time.Time) Option {
	return func(o *options) {
		o.reference = t
	}
}

// WithHistoryCapacity sets how many durations are kept per stage and
// how many frames of timings are kept for introspection.
func WithHistoryCapacity(n int) Option {
	return func(o *options) {
		o.history = n
	}
}

// WithForecastWindow sets how many recent durations a stage forecast
// considers.
func WithForecastWindow(n int) Option {
	return func(o *options) {
		o.window = n
	}
}
