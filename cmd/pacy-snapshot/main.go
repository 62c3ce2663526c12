// Command pacy-snapshot runs the stress loop headless for a number of
// frames and saves the pacing overlay as a PNG.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"github.com/gogpu/pacy/internal/config"
	"github.com/gogpu/pacy/internal/harness"
	"github.com/gogpu/pacy/overlay"
)

func main() {
	var (
		width  = flag.Int("width", 360, "image width")
		height = flag.Int("height", 240, "image height")
		frames = flag.Int("frames", 120, "frames to run before the snapshot")
		hz     = flag.Float64("hz", 60, "reported monitor refresh rate in Hz")
		pacing = flag.Bool("pacing", true, "enable pacing")
		output = flag.String("output", "pacy.png", "output file")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	cfg.Frequency = *hz
	cfg.Pacing = *pacing

	if err := snapshot(cfg, *frames, *width, *height, *output); err != nil {
		log.Fatalf("Failed to snapshot: %v", err)
	}
	log.Printf("Overlay after %d frames saved to %s (%dx%d)\n", *frames, *output, *width, *height)
}

func snapshot(cfg *config.Config, frames, width, height int, output string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loop, err := harness.NewLoop(cfg, harness.Options{Logger: logger})
	if err != nil {
		return err
	}
	ctx := context.Background()
	for range frames {
		if err := loop.Frame(ctx); err != nil {
			return err
		}
		loop.Wait()
	}

	face, err := overlay.DefaultFace(13)
	if err != nil {
		return err
	}
	dc := gg.NewContext(width, height)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.RGBA{R: 0.08, G: 0.09, B: 0.12, A: 1})
	ov := overlay.New(face)
	ov.SetPosition(8, 8)
	ov.Draw(dc, loop.Pacer().Internals())
	return dc.SavePNG(output)
}
