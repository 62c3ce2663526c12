// Package pacy paces a real-time render loop against the display's
// refresh cadence.
//
// # Overview
//
// A frame is a fixed pipeline of sequential stages (input collection,
// simulation, GPU submission, ...). pacy times every stage, forecasts how
// long the next frame's pipeline will take, and sleeps just long enough
// that the work finishes on the next refresh boundary it can still hit.
// Waiting less risks a missed refresh; waiting more adds latency.
//
// # Quick Start
//
//	import "github.com/gogpu/pacy"
//
//	pacer, err := pacy.New(monitorHz)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cpu := pacer.RegisterNamedStage("cpu")
//
//	for running {
//	    pollInput()
//
//	    _ = pacer.BeginStage(cpu, pacer.Now())
//	    simulateAndSubmit()
//	    _ = pacer.EndStage(cpu, pacer.Now())
//
//	    present()
//	    pacer.WaitForFrame()
//	}
//
// # Components
//
//   - StageTracker: bounded per-stage duration history; the forecast is
//     the maximum of the last DefaultForecastWindow samples.
//   - RefreshPredictor: infers refresh boundaries from a reported
//     frequency and a reference instant. No vblank signal is needed.
//   - FramePacer: sums stage forecasts, asks the predictor for the wait,
//     records it and blocks with a Sleeper.
//
// # Refresh Model
//
// The display is treated as a fixed-frequency clock. Reported rates are
// usually rounded to an integer, so the interval assumed is
// 1/(round(hz)-0.5): 60 Hz becomes 59.5 Hz, about 16.807 ms. Variable
// refresh rate is not modeled.
//
// # Errors
//
// Errors fall into three categories, testable with errors.Is:
// ErrUsage (broken begin/end bookkeeping), ErrInvalidConfiguration
// (unusable frequency, rejected at assignment) and ErrClockAnomaly (a
// stage that ended before it began). WaitForFrame never fails.
//
// # Thread Safety
//
// A FramePacer owns no lock and starts no goroutine. Call it from one
// goroutine. Independent pacers share nothing.
package pacy
