// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacy

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly
// one of them under errors.Is.
var (
	// ErrUsage reports a broken frame lifecycle in the host: a stage begun
	// twice, ended without a begin, or a handle the pacer does not own.
	ErrUsage = errors.New("pacy: usage error")

	// ErrInvalidConfiguration reports a rejected reported frequency.
	ErrInvalidConfiguration = errors.New("pacy: invalid configuration")

	// ErrClockAnomaly reports a stage that ended before it began.
	ErrClockAnomaly = errors.New("pacy: clock anomaly")
)

// Usage errors.
var (
	ErrUnknownStage    = fmt.Errorf("%w: unknown stage", ErrUsage)
	ErrStageRunning    = fmt.Errorf("%w: stage already running", ErrUsage)
	ErrStageNotRunning = fmt.Errorf("%w: stage not running", ErrUsage)
)

// StageError records a failed stage operation.
type StageError struct {
	Op    string // "begin", "end", "forecast", ...
	Stage StageHandle
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %d: %v", e.Op, int(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(op string, h StageHandle, err error) error {
	return &StageError{Op: op, Stage: h, Err: err}
}
