// Package config holds the runtime configuration of the stress hosts.
// Fields may be loaded from a JSON file and overridden by command-line
// flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/gogpu/pacy"
	"github.com/gogpu/pacy/internal/workload"
)

// Duration is a time.Duration encoded in JSON as a Go duration string
// such as "4ms" or "1.5ms".
type Duration time.Duration

// MarshalJSON encodes d as a duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ns int64
		if err := json.Unmarshal(b, &ns); err != nil {
			return fmt.Errorf("config: duration must be a string or integer nanoseconds: %s", b)
		}
		*d = Duration(ns)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	*d = Duration(v)
	return nil
}

// Stage is one synthetic pipeline stage.
type Stage struct {
	Name        string   `json:"name"`
	Work        Duration `json:"work"`
	Jitter      Duration `json:"jitter"`
	Spike       Duration `json:"spike"`
	SpikeChance float64  `json:"spike_chance"`
}

// Config holds runtime configuration for a stress run.
type Config struct {
	// Reported monitor frequency in Hz.
	Frequency float64 `json:"frequency"`
	// Pacing enables the pacer's blocking wait.
	Pacing bool `json:"pacing"`
	// Frames to run headless; 0 runs until interrupted.
	Frames int `json:"frames"`

	HistoryCapacity int      `json:"history_capacity"`
	ForecastWindow  int      `json:"forecast_window"`
	SpinThreshold   Duration `json:"spin_threshold"`

	Seed     uint64  `json:"seed"`
	Stages   []Stage `json:"stages"`
	LogLevel string  `json:"log_level"`
	Overlay  bool    `json:"overlay"`
}

// DefaultConfig returns a Config populated with standard defaults: a 60 Hz
// display and an input, simulation and submission stage.
func DefaultConfig() *Config {
	return &Config{
		Frequency:       60,
		Pacing:          true,
		Frames:          0,
		HistoryCapacity: pacy.DefaultStageHistory,
		ForecastWindow:  pacy.DefaultForecastWindow,
		SpinThreshold:   Duration(pacy.DefaultSpinThreshold),
		Seed:            1,
		Stages: []Stage{
			{Name: "input", Work: Duration(300 * time.Microsecond), Jitter: Duration(100 * time.Microsecond)},
			{Name: "simulate", Work: Duration(4 * time.Millisecond), Jitter: Duration(time.Millisecond),
				Spike: Duration(4 * time.Millisecond), SpikeChance: 0.02},
			{Name: "submit", Work: Duration(2 * time.Millisecond), Jitter: Duration(500 * time.Microsecond)},
		},
		LogLevel: "info",
		Overlay:  true,
	}
}

// ErrInvalid reports a configuration value that cannot be normalized.
var ErrInvalid = errors.New("config: invalid value")

// Validate normalizes values to safe ranges. It fails only for values
// that have no sensible replacement: an unusable frequency, negative
// stage costs, or an unknown log level.
func (c *Config) Validate() error {
	if err := pacy.ValidateFrequency(c.Frequency); err != nil {
		return fmt.Errorf("%w: frequency: %w", ErrInvalid, err)
	}
	if c.Frames < 0 {
		c.Frames = 0
	}
	if c.ForecastWindow <= 0 {
		c.ForecastWindow = pacy.DefaultForecastWindow
	}
	if c.HistoryCapacity < c.ForecastWindow {
		c.HistoryCapacity = max(pacy.DefaultStageHistory, c.ForecastWindow)
	}
	if c.SpinThreshold < 0 {
		c.SpinThreshold = 0
	}
	for i := range c.Stages {
		s := &c.Stages[i]
		if s.Work < 0 || s.Jitter < 0 || s.Spike < 0 {
			return fmt.Errorf("%w: stage %d (%s): negative duration", ErrInvalid, i, s.Name)
		}
		if s.SpikeChance < 0 {
			s.SpikeChance = 0
		}
		if s.SpikeChance > 1 {
			s.SpikeChance = 1
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("stage%d", i)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return level, nil
}

// Workloads converts the stage list for a workload.Generator.
func (c *Config) Workloads() []workload.Spec {
	specs := make([]workload.Spec, len(c.Stages))
	for i, s := range c.Stages {
		specs[i] = workload.Spec{
			Name:        s.Name,
			Base:        time.Duration(s.Work),
			Jitter:      time.Duration(s.Jitter),
			Spike:       time.Duration(s.Spike),
			SpikeChance: s.SpikeChance,
		}
	}
	return specs
}

// PacerOptions returns the pacer options the configuration implies.
func (c *Config) PacerOptions() []pacy.Option {
	return []pacy.Option{
		pacy.WithEnabled(c.Pacing),
		pacy.WithHistoryCapacity(c.HistoryCapacity),
		pacy.WithForecastWindow(c.ForecastWindow),
		pacy.WithSleeper(pacy.NewSpinSleeper(time.Duration(c.SpinThreshold))),
	}
}

// DefaultPath returns the per-user configuration file under the XDG
// config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "pacy", "stress.json")
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON or validation error it returns the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	defaults := cfg.Stages
	cfg.Stages = nil
	if err := dec.Decode(cfg); err != nil {
		cfg.Stages = defaults
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if len(cfg.Stages) == 0 {
		cfg.Stages = defaults
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ParseStages parses a stage list of the form "name=work[±jitter],...",
// for example "input=300us,simulate=4ms±1ms". "+-" may stand in for "±".
func ParseStages(s string) ([]Stage, error) {
	var stages []Stage
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, cost, ok := strings.Cut(field, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: stage %q: want name=duration", ErrInvalid, field)
		}
		cost = strings.ReplaceAll(cost, "+-", "±")
		work, jitter, hasJitter := strings.Cut(cost, "±")
		st := Stage{Name: name}
		d, err := time.ParseDuration(work)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %q: %w", ErrInvalid, name, err)
		}
		st.Work = Duration(d)
		if hasJitter {
			j, err := time.ParseDuration(jitter)
			if err != nil {
				return nil, fmt.Errorf("%w: stage %q: %w", ErrInvalid, name, err)
			}
			st.Jitter = Duration(j)
		}
		stages = append(stages, st)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: empty stage list", ErrInvalid)
	}
	return stages, nil
}
