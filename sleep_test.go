package pacy

import (
	"testing"
	"time"
)

func TestNewSpinSleeperClampsThreshold(t *testing.T) {
	if got := NewSpinSleeper(-time.Millisecond).Threshold(); got != 0 {
		t.Errorf("Threshold() = %v, want 0", got)
	}
	if got := NewSpinSleeper(2 * time.Millisecond).Threshold(); got != 2*time.Millisecond {
		t.Errorf("Threshold() = %v, want 2ms", got)
	}
}

func TestSpinSleeperSleepsAtLeast(t *testing.T) {
	tests := []struct {
		name      string
		threshold time.Duration
		d         time.Duration
	}{
		{"spin only", 5 * time.Millisecond, 2 * time.Millisecond},
		{"sleep then spin", time.Millisecond, 3 * time.Millisecond},
		{"sleep only", 0, 2 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpinSleeper(tt.threshold)
			start := time.Now()
			s.Sleep(tt.d)
			if got := time.Since(start); got < tt.d {
				t.Errorf("Sleep(%v) returned after %v", tt.d, got)
			}
		})
	}
}

func TestSpinSleeperNonPositive(t *testing.T) {
	s := NewSpinSleeper(DefaultSpinThreshold)
	start := time.Now()
	s.Sleep(0)
	s.Sleep(-time.Second)
	if got := time.Since(start); got > 50*time.Millisecond {
		t.Errorf("non-positive sleeps took %v", got)
	}
}
