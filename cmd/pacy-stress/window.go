package main

import (
	"context"
	"log/slog"

	"github.com/gogpu/gg"
	_ "github.com/gogpu/gg/gpu" // GPU accelerator for the canvas
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gg/text"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pacy/internal/config"
	"github.com/gogpu/pacy/internal/harness"
	"github.com/gogpu/pacy/overlay"
)

const (
	windowWidth  = 960
	windowHeight = 540
)

// runWindow paces a continuously rendering gogpu window.
//
// gogpu presents after OnDraw returns, so each callback first waits for
// the previous frame and then runs the next one:
//
//	present, wait, stages + draw, present, ...
func runWindow(cfg *config.Config, logger *slog.Logger) error {
	loop, err := harness.NewLoop(cfg, harness.Options{Logger: logger})
	if err != nil {
		return err
	}

	var face text.Face
	if cfg.Overlay {
		if face, err = overlay.DefaultFace(14); err != nil {
			return err
		}
	}
	ov := overlay.New(face)
	ov.SetPosition(12, 12)

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("pacy stress (Space toggles pacing)").
		WithSize(windowWidth, windowHeight).
		WithContinuousRender(true))

	ctx := context.Background()
	var canvas *ggcanvas.Canvas
	started := false

	app.OnDraw(func(dc *gogpu.Context) {
		if started {
			loop.Wait()
		}
		started = true
		if loop.Quit() {
			return
		}
		if err := loop.Frame(ctx); err != nil {
			logger.Error("pacy-stress: frame failed", "err", err)
			return
		}

		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		if canvas == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			if canvas, err = ggcanvas.New(provider, w, h); err != nil {
				logger.Error("pacy-stress: canvas", "err", err)
				return
			}
		}
		if cw, ch := canvas.Size(); cw != w || ch != h {
			if err := canvas.Resize(w, h); err != nil {
				logger.Warn("pacy-stress: resize", "err", err)
			}
		}

		in := loop.Pacer().Internals()
		if err := canvas.Draw(func(cc *gg.Context) {
			cc.ClearWithColor(gg.RGBA{R: 0.08, G: 0.09, B: 0.12, A: 1})
			if cfg.Overlay {
				ov.Draw(cc, in)
			}
		}); err != nil {
			logger.Warn("pacy-stress: draw", "err", err)
		}
		if err := canvas.RenderTo(dc.AsTextureDrawer()); err != nil {
			logger.Warn("pacy-stress: render", "frame", in.Frames(), "err", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key == gpucontext.KeySpace {
			loop.Events().Push(harness.Event{Kind: harness.EventTogglePacing})
		}
	})

	app.OnClose(func() {
		logger.Info("pacy-stress: closed", "report", loop.Report().String())
		gg.CloseAccelerator()
	})

	return app.Run()
}
