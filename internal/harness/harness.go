// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package harness drives a paced render loop over synthetic stage work.
//
// One frame is: drain host events, run every configured stage between
// BeginStage and EndStage, then WaitForFrame. Windowed hosts call Frame
// and Wait around their own drawing; headless runs use Run. Each frame
// and stage is reported as an OpenTelemetry span on the global tracer
// provider, which is a no-op until the host installs an SDK.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/pacy"
	"github.com/gogpu/pacy/internal/config"
	"github.com/gogpu/pacy/internal/workload"
)

const tracerName = "github.com/gogpu/pacy/internal/harness"

// Options injects the collaborators of a Loop. Zero fields select the
// real clock, the configured spin sleeper, workload.Burn, the global
// tracer and a silent logger.
type Options struct {
	Logger  *slog.Logger
	Clock   pacy.Clock
	Sleeper pacy.Sleeper
	Burn    func(time.Duration)
	Tracer  trace.Tracer
	Events  *EventQueue
}

// Loop owns a pacer and the synthetic stages it paces.
//
// Loop is not safe for concurrent use, apart from pushing to its
// EventQueue.
type Loop struct {
	pacer  *pacy.FramePacer
	stages []pacy.StageHandle
	work   *workload.Generator
	burn   func(time.Duration)
	tracer trace.Tracer
	events *EventQueue
	log    *slog.Logger

	pending   []Event
	frameCtx  context.Context
	frameSpan trace.Span
	report    Report
	quit      bool
}

// NewLoop validates cfg and builds the pacer and its stages.
func NewLoop(cfg *config.Config, opts Options) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Burn == nil {
		opts.Burn = workload.Burn
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Events == nil {
		opts.Events = &EventQueue{}
	}

	popts := append(cfg.PacerOptions(), pacy.WithLogger(opts.Logger))
	if opts.Clock != nil {
		popts = append(popts, pacy.WithClock(opts.Clock))
	}
	if opts.Sleeper != nil {
		popts = append(popts, pacy.WithSleeper(opts.Sleeper))
	}
	pacer, err := pacy.New(cfg.Frequency, popts...)
	if err != nil {
		return nil, fmt.Errorf("harness: %w", err)
	}

	specs := cfg.Workloads()
	l := &Loop{
		pacer:  pacer,
		work:   workload.NewGenerator(cfg.Seed, specs...),
		burn:   opts.Burn,
		tracer: opts.Tracer,
		events: opts.Events,
		log:    opts.Logger,
	}
	for _, s := range specs {
		l.stages = append(l.stages, pacer.RegisterNamedStage(s.Name))
	}
	return l, nil
}

// Pacer returns the loop's pacer, e.g. for an overlay.
func (l *Loop) Pacer() *pacy.FramePacer { return l.pacer }

// Events returns the queue hosts push input events to.
func (l *Loop) Events() *EventQueue { return l.events }

// Report returns the statistics accumulated so far.
func (l *Loop) Report() Report { return l.report }

// Quit reports whether an EventQuit has been handled.
func (l *Loop) Quit() bool { return l.quit }

// Frame drains pending events and runs every stage once. It does not
// wait; call Wait once the frame is presented.
func (l *Loop) Frame(ctx context.Context) error {
	l.handleEvents()
	if l.quit {
		return nil
	}

	frameNum := l.pacer.Internals().Frames()
	l.frameCtx, l.frameSpan = l.tracer.Start(ctx, "frame",
		trace.WithAttributes(attribute.Int64("pacy.frame", int64(frameNum))))

	for i, h := range l.stages {
		if err := l.runStage(i, h); err != nil {
			l.frameSpan.RecordError(err)
			l.frameSpan.End()
			l.frameSpan = nil
			return err
		}
	}
	return nil
}

func (l *Loop) runStage(i int, h pacy.StageHandle) error {
	st := l.work.Spec(i)
	cost := l.work.Next(i)

	_, span := l.tracer.Start(l.frameCtx, st.Name,
		trace.WithAttributes(attribute.Int64("pacy.stage.cost_ns", cost.Nanoseconds())))
	defer span.End()

	if err := l.pacer.BeginStage(h, l.pacer.Now()); err != nil {
		return fmt.Errorf("harness: %s: %w", st.Name, err)
	}
	l.burn(cost)
	if err := l.pacer.EndStage(h, l.pacer.Now()); err != nil {
		return fmt.Errorf("harness: %s: %w", st.Name, err)
	}
	return nil
}

// Wait paces the frame and accounts it in the report.
func (l *Loop) Wait() time.Duration {
	planned := l.pacer.WaitForFrame()
	in := l.pacer.Internals()
	if ft, ok := in.Last(); ok {
		l.report.add(ft, in.Interval())
	}
	if l.frameSpan != nil {
		l.frameSpan.SetAttributes(
			attribute.Int64("pacy.sleep.planned_ns", planned.Nanoseconds()),
			attribute.Bool("pacy.enabled", in.Enabled()))
		l.frameSpan.End()
		l.frameSpan = nil
	}
	return planned
}

func (l *Loop) handleEvents() {
	l.pending = l.events.Drain(l.pending[:0])
	for _, e := range l.pending {
		switch e.Kind {
		case EventTogglePacing:
			l.pacer.SetEnabled(!l.pacer.Enabled())
		case EventSetFrequency:
			if err := l.pacer.SetMonitorFrequency(e.Frequency); err != nil {
				l.log.Warn("harness: ignoring monitor frequency", "frequency", e.Frequency, "err", err)
			}
		case EventQuit:
			l.quit = true
		default:
			l.log.Debug("harness: unknown event", "kind", e.Kind)
		}
	}
}

// Run builds a loop and runs cfg.Frames frames, or until ctx is done or an
// EventQuit arrives when cfg.Frames is zero. Cancellation is a normal stop
// and is not reported as an error.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Report, error) {
	l, err := NewLoop(cfg, opts)
	if err != nil {
		return Report{}, err
	}
	for cfg.Frames == 0 || l.report.Frames < cfg.Frames {
		if ctx.Err() != nil {
			break
		}
		if err := l.Frame(ctx); err != nil {
			return l.report, err
		}
		if l.quit {
			break
		}
		l.Wait()
	}
	l.log.Info("harness: run finished", "report", l.report.String())
	return l.report, nil
}
