package pacy

import (
	"testing"
	"time"
)

// TestDefaultOptions tests the option defaults New starts from.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if !o.enabled {
		t.Error("enabled = false, want true")
	}
	if o.clock != nil || o.sleeper != nil || o.logger != nil {
		t.Error("default collaborators should be nil and resolved by New")
	}
	if o.history != DefaultStageHistory || o.window != DefaultForecastWindow {
		t.Errorf("history, window = %d, %d; want %d, %d",
			o.history, o.window, DefaultStageHistory, DefaultForecastWindow)
	}
	if !o.reference.IsZero() {
		t.Errorf("reference = %v, want zero", o.reference)
	}
}

// TestOptionsApply tests that each option sets its field.
func TestOptionsApply(t *testing.T) {
	clock := &fakeClock{now: time.Unix(5, 0)}
	sleeper := &recordingSleeper{clock: clock}
	ref := time.Unix(3, 0)

	o := defaultOptions()
	for _, opt := range []Option{
		WithEnabled(false),
		WithClock(clock),
		WithSleeper(sleeper),
		WithReference(ref),
		WithHistoryCapacity(7),
		WithForecastWindow(3),
	} {
		opt(&o)
	}

	if o.enabled {
		t.Error("WithEnabled(false) not applied")
	}
	if o.clock != clock {
		t.Error("WithClock not applied")
	}
	if o.sleeper != sleeper {
		t.Error("WithSleeper not applied")
	}
	if !o.reference.Equal(ref) {
		t.Errorf("reference = %v, want %v", o.reference, ref)
	}
	if o.history != 7 || o.window != 3 {
		t.Errorf("history, window = %d, %d; want 7, 3", o.history, o.window)
	}
}

// TestNewWithInjectedCollaborators tests dependency injection into New.
func TestNewWithInjectedCollaborators(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	sleeper := &recordingSleeper{clock: clock}

	p, err := New(60, WithClock(clock), WithSleeper(sleeper))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Now().Equal(clock.Now()) {
		t.Errorf("Now() = %v, want the injected clock's %v", p.Now(), clock.Now())
	}

	clock.Advance(time.Millisecond)
	p.WaitForFrame()
	if len(sleeper.slept) != 1 {
		t.Fatalf("injected sleeper called %d times, want 1", len(sleeper.slept))
	}
	if got, want := sleeper.slept[0], p.Internals().Interval()-time.Millisecond; got != want {
		t.Errorf("slept %v, want %v", got, want)
	}
}

// TestLaterOptionWins tests that options apply in order.
func TestLaterOptionWins(t *testing.T) {
	o := defaultOptions()
	WithForecastWindow(4)(&o)
	WithForecastWindow(6)(&o)
	if o.window != 6 {
		t.Errorf("window = %d, want 6", o.window)
	}
}
