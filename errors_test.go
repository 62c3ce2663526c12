package pacy

import (
	"errors"
	"strings"
	"testing"
)

func TestUsageSentinelsWrapCategory(t *testing.T) {
	for _, err := range []error{ErrUnknownStage, ErrStageRunning, ErrStageNotRunning} {
		if !errors.Is(err, ErrUsage) {
			t.Errorf("%v does not match ErrUsage", err)
		}
		if errors.Is(err, ErrInvalidConfiguration) || errors.Is(err, ErrClockAnomaly) {
			t.Errorf("%v matches a second category", err)
		}
	}
}

func TestStageErrorMessage(t *testing.T) {
	err := stageError("end", 3, ErrStageNotRunning)
	got := err.Error()
	for _, want := range []string{"end", "stage 3", "stage not running"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
	if !errors.Is(err, ErrStageNotRunning) {
		t.Error("StageError does not unwrap to its cause")
	}
}
