package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/pacy"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if len(cfg.Stages) != 3 {
		t.Errorf("default stages = %d, want 3", len(cfg.Stages))
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frequency", func(c *Config) { c.Frequency = 0 }},
		{"negative frequency", func(c *Config) { c.Frequency = -60 }},
		{"negative work", func(c *Config) { c.Stages[0].Work = Duration(-time.Millisecond) }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateFrequencyErrorKeepsCategory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frequency = 0
	if err := cfg.Validate(); !errors.Is(err, pacy.ErrInvalidConfiguration) {
		t.Errorf("Validate() = %v, want to wrap pacy.ErrInvalidConfiguration", err)
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames = -5
	cfg.ForecastWindow = 0
	cfg.HistoryCapacity = 2
	cfg.SpinThreshold = Duration(-time.Millisecond)
	cfg.Stages[1].SpikeChance = 3
	cfg.Stages[2].Name = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Frames != 0 {
		t.Errorf("Frames = %d, want 0", cfg.Frames)
	}
	if cfg.ForecastWindow != pacy.DefaultForecastWindow {
		t.Errorf("ForecastWindow = %d, want %d", cfg.ForecastWindow, pacy.DefaultForecastWindow)
	}
	if cfg.HistoryCapacity != pacy.DefaultStageHistory {
		t.Errorf("HistoryCapacity = %d, want %d", cfg.HistoryCapacity, pacy.DefaultStageHistory)
	}
	if cfg.SpinThreshold != 0 {
		t.Errorf("SpinThreshold = %v, want 0", cfg.SpinThreshold)
	}
	if cfg.Stages[1].SpikeChance != 1 {
		t.Errorf("SpikeChance = %v, want 1", cfg.Stages[1].SpikeChance)
	}
	if cfg.Stages[2].Name != "stage2" {
		t.Errorf("Name = %q, want stage2", cfg.Stages[2].Name)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		got, err := cfg.SlogLevel()
		if err != nil || got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Frequency != 60 || len(cfg.Stages) != 3 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.json")
	data := `{
  "frequency": 144,
  "pacing": false,
  "stages": [
    {"name": "cpu", "work": "3ms", "jitter": 250000}
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Frequency != 144 || cfg.Pacing {
		t.Errorf("Frequency, Pacing = %v, %v, want 144, false", cfg.Frequency, cfg.Pacing)
	}
	if len(cfg.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(cfg.Stages))
	}
	s := cfg.Stages[0]
	if s.Name != "cpu" || s.Work != Duration(3*time.Millisecond) || s.Jitter != Duration(250*time.Microsecond) {
		t.Errorf("Stages[0] = %+v", s)
	}
	if s.Spike != 0 || s.SpikeChance != 0 {
		t.Errorf("Stages[0] kept default spike fields: %+v", s)
	}
}

func TestLoadKeepsDefaultStagesWhenOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.json")
	if err := os.WriteFile(path, []byte(`{"frequency": 75}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Stages) != 3 {
		t.Errorf("len(Stages) = %d, want default 3", len(cfg.Stages))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"frequency": `},
		{"unknown field", `{"refresh": 60}`},
		{"bad duration", `{"stages": [{"work": "fast"}]}`},
		{"invalid frequency", `{"frequency": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stress.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestSaveLoadPreservesDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.json")
	cfg := DefaultConfig()
	cfg.Stages[0].Work = Duration(1500 * time.Microsecond)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"work": "1.5ms"`) {
		t.Errorf("saved file does not encode durations as strings:\n%s", raw)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Stages[0].Work != cfg.Stages[0].Work {
		t.Errorf("Work = %v, want %v", got.Stages[0].Work, cfg.Stages[0].Work)
	}
}

func TestParseStages(t *testing.T) {
	tests := []struct {
		in      string
		want    []Stage
		wantErr bool
	}{
		{in: "input=300us", want: []Stage{{Name: "input", Work: Duration(300 * time.Microsecond)}}},
		{in: "a=4ms±1ms, b=2ms+-500us", want: []Stage{
			{Name: "a", Work: Duration(4 * time.Millisecond), Jitter: Duration(time.Millisecond)},
			{Name: "b", Work: Duration(2 * time.Millisecond), Jitter: Duration(500 * time.Microsecond)},
		}},
		{in: "a=1ms,,", want: []Stage{{Name: "a", Work: Duration(time.Millisecond)}}},
		{in: "", wantErr: true},
		{in: "noequals", wantErr: true},
		{in: "=1ms", wantErr: true},
		{in: "a=fast", wantErr: true},
		{in: "a=1ms±slow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStages(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("ParseStages(%q) error = %v, want ErrInvalid", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStages(%q) error = %v", tt.in, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseStages(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	if filepath.Base(p) != "stress.json" || filepath.Base(filepath.Dir(p)) != "pacy" {
		t.Errorf("DefaultPath() = %q, want .../pacy/stress.json", p)
	}
}
