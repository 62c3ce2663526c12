package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/pacy/internal/config"
)

func TestLoadConfigOverrides(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.json")
	tests := []struct {
		name       string
		hz         float64
		stages     string
		frames     int
		wantHz     float64
		wantStages int
		wantFrames int
	}{
		{"defaults", 0, "", -1, 60, 3, 0},
		{"hz", 144, "", -1, 144, 3, 0},
		{"stages", 0, "a=1ms,b=2ms", -1, 60, 2, 0},
		{"frames", 0, "", 300, 60, 3, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(missing, tt.hz, tt.stages, tt.frames)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Frequency != tt.wantHz || len(cfg.Stages) != tt.wantStages || cfg.Frames != tt.wantFrames {
				t.Errorf("loadConfig() = %v Hz, %d stages, %d frames; want %v, %d, %d",
					cfg.Frequency, len(cfg.Stages), cfg.Frames, tt.wantHz, tt.wantStages, tt.wantFrames)
			}
		})
	}
}

func TestLoadConfigRejects(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.json")
	if _, err := loadConfig(missing, -5, "", -1); err == nil {
		t.Error("negative -hz accepted")
	}
	if _, err := loadConfig(missing, 0, "broken", -1); err == nil {
		t.Error("malformed -stages accepted")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.json")
	cfg := config.DefaultConfig()
	cfg.Frequency = 75
	cfg.Stages = []config.Stage{{Name: "only", Work: config.Duration(time.Millisecond)}}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := loadConfig(path, 0, "", -1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frequency != 75 || len(got.Stages) != 1 {
		t.Errorf("loadConfig() = %v Hz with %d stages, want 75 Hz with 1", got.Frequency, len(got.Stages))
	}
}

func TestNewLoggerJSONWhenNotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	newLogger(f, 0).Info("hello")
	raw, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		t.Errorf("log output = %q, want a JSON record", raw)
	}
}
