//go:build sdl2

// Command pacy-sdl paces an SDL2 window that presents with vsync.
//
// The monitor frequency comes from the display mode SDL reports and is
// re-read whenever the window moves, so dragging the window to another
// monitor retargets the pacer. Space toggles pacing, Escape quits.
//
// Build with the sdl2 tag:
//
//	go build -tags sdl2 ./cmd/pacy-sdl
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/draw"

	"github.com/gogpu/gg"

	"github.com/gogpu/pacy/internal/config"
	"github.com/gogpu/pacy/internal/harness"
	"github.com/gogpu/pacy/overlay"
)

const (
	windowTitle  = "pacy sdl (Space toggles pacing)"
	windowWidth  = 800
	windowHeight = 450
)

func init() {
	// SDL video calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath(), "JSON configuration file; missing means defaults")
		hz         = flag.Float64("hz", 0, "monitor refresh rate in Hz; 0 asks SDL")
		verbose    = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("pacy-sdl: %v", err)
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, *hz, logger); err != nil {
		log.Fatalf("pacy-sdl: %v", err)
	}
}

type host struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	log      *slog.Logger
	hz       float64
}

func newHost(logger *slog.Logger) (*host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}
	window, err := sdl.CreateWindow(windowTitle,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, err
	}
	// ABGR8888 is R, G, B, A in memory on little-endian hosts, which is
	// the byte order of image.RGBA.
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING,
		windowWidth, windowHeight)
	if err != nil {
		return nil, err
	}
	return &host{window: window, renderer: renderer, texture: texture, log: logger}, nil
}

func (h *host) Close() {
	_ = h.texture.Destroy()
	_ = h.renderer.Destroy()
	_ = h.window.Destroy()
	sdl.Quit()
}

// displayFrequency returns the refresh rate of the window's display, or
// 0 when SDL does not know it.
func (h *host) displayFrequency() float64 {
	idx, err := h.window.GetDisplayIndex()
	if err != nil {
		h.log.Warn("pacy-sdl: display index", "err", err)
		return 0
	}
	mode, err := sdl.GetCurrentDisplayMode(idx)
	if err != nil {
		h.log.Warn("pacy-sdl: display mode", "display", idx, "err", err)
		return 0
	}
	return float64(mode.RefreshRate)
}

// poll forwards pending SDL events to q. It reports false once the
// window should close.
func (h *host) poll(q *harness.EventQueue) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			switch e.Keysym.Sym {
			case sdl.K_SPACE:
				q.Push(harness.Event{Kind: harness.EventTogglePacing})
			case sdl.K_ESCAPE:
				return false
			}
		case *sdl.WindowEvent:
			if e.Event != sdl.WINDOWEVENT_MOVED {
				continue
			}
			if hz := h.displayFrequency(); hz > 0 && hz != h.hz {
				h.hz = hz
				q.Push(harness.Event{Kind: harness.EventSetFrequency, Frequency: hz})
			}
		}
	}
	return true
}

// present copies img into the streaming texture and presents it.
func (h *host) present(img image.Image) error {
	pixels, pitch, err := h.texture.Lock(nil)
	if err != nil {
		return err
	}
	dst := &image.RGBA{Pix: pixels, Stride: pitch, Rect: image.Rect(0, 0, windowWidth, windowHeight)}
	draw.Draw(dst, dst.Rect, img, image.Point{}, draw.Src)
	h.texture.Unlock()

	if err := h.renderer.Clear(); err != nil {
		return err
	}
	if err := h.renderer.Copy(h.texture, nil, nil); err != nil {
		return err
	}
	h.renderer.Present()
	return nil
}

func run(cfg *config.Config, hz float64, logger *slog.Logger) error {
	h, err := newHost(logger)
	if err != nil {
		return err
	}
	defer h.Close()

	h.hz = hz
	if h.hz == 0 {
		h.hz = h.displayFrequency()
	}
	if h.hz > 0 {
		cfg.Frequency = h.hz
	}
	logger.Info("pacy-sdl: starting", "frequency", cfg.Frequency)

	loop, err := harness.NewLoop(cfg, harness.Options{Logger: logger})
	if err != nil {
		return err
	}
	face, err := overlay.DefaultFace(14)
	if err != nil {
		return err
	}
	ov := overlay.New(face)
	ov.SetPosition(12, 12)

	dc := gg.NewContext(windowWidth, windowHeight)
	defer func() { _ = dc.Close() }()

	ctx := context.Background()
	for h.poll(loop.Events()) {
		if err := loop.Frame(ctx); err != nil {
			return err
		}
		dc.ClearWithColor(gg.RGBA{R: 0.08, G: 0.09, B: 0.12, A: 1})
		ov.Draw(dc, loop.Pacer().Internals())
		if err := h.present(dc.Image()); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		loop.Wait()
	}
	logger.Info("pacy-sdl: closed", "report", loop.Report().String())
	return nil
}
