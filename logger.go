package pacy

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// WithLogger sets the logger a FramePacer reports to.
// By default a pacer produces no log output. Pass nil to keep it silent.
//
// Log levels used by pacy:
//   - [slog.LevelDebug]: stage registration, reference re-anchoring
//   - [slog.LevelInfo]: monitor frequency changes, pacing toggles
//   - [slog.LevelWarn]: rejected frequencies, clock anomalies
//
// Example:
//
//	pacer, err := pacy.New(60, pacy.WithLogger(slog.New(
//	    slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
//	)))
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}
