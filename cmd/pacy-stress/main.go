// Command pacy-stress runs the frame pacer against synthetic stage work.
//
// By default it opens a gogpu window with the pacing overlay; press Space
// to toggle pacing. With -headless it runs the loop without a window and
// prints a report.
//
// Usage:
//
//	pacy-stress [-config file] [-hz 144] [-stages "input=300us,simulate=4ms±1ms"]
//	pacy-stress -headless -frames 600
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/gogpu/pacy/internal/config"
	"github.com/gogpu/pacy/internal/harness"
)

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "JSON configuration file; missing means defaults")
		hz          = flag.Float64("hz", 0, "reported monitor refresh rate in Hz (overrides config)")
		stages      = flag.String("stages", "", `stage list such as "input=300us,simulate=4ms±1ms" (overrides config)`)
		headless    = flag.Bool("headless", false, "run without a window and print a report")
		frames      = flag.Int("frames", -1, "frames to run headless; 0 runs until interrupted")
		verbose     = flag.Bool("v", false, "log at debug level")
		writeConfig = flag.Bool("write-config", false, "save the effective configuration to -config and exit")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *hz, *stages, *frames)
	if err != nil {
		log.Fatalf("pacy-stress: %v", err)
	}
	if *writeConfig {
		if err := os.MkdirAll(filepath.Dir(*configPath), 0o755); err != nil {
			log.Fatalf("pacy-stress: %v", err)
		}
		if err := cfg.Save(*configPath); err != nil {
			log.Fatalf("pacy-stress: %v", err)
		}
		log.Printf("Configuration saved to %s", *configPath)
		return
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatalf("pacy-stress: %v", err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level)

	if *headless {
		err = runHeadless(cfg, logger)
	} else {
		err = runWindow(cfg, logger)
	}
	if err != nil {
		log.Fatalf("pacy-stress: %v", err)
	}
}

// loadConfig reads path and applies flag overrides. Zero hz, an empty stage
// list and negative frames leave the configured values alone.
func loadConfig(path string, hz float64, stages string, frames int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if hz != 0 {
		cfg.Frequency = hz
	}
	if stages != "" {
		if cfg.Stages, err = config.ParseStages(stages); err != nil {
			return nil, err
		}
	}
	if frames >= 0 {
		cfg.Frames = frames
	}
	return cfg, cfg.Validate()
}

// newLogger logs text to terminals and JSON otherwise.
func newLogger(w *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func runHeadless(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("pacy-stress: running headless",
		"frequency", cfg.Frequency, "stages", len(cfg.Stages), "frames", cfg.Frames)
	report, err := harness.Run(ctx, cfg, harness.Options{Logger: logger})
	fmt.Println(report)
	return err
}
