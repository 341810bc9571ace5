package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/offlinefirst/squirrel/pkg/engine"
	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/geometry"
)

const DefaultFileName = "squirrel.yaml"

// Config captures the user-adjustable knobs of the translator.
type Config struct {
	Scroll    ScrollConfig        `yaml:"scroll"`
	Bezel     geometry.BezelInset `yaml:"bezel"`
	CancelKey int                 `yaml:"cancel_key"`
	Enabled   bool                `yaml:"enabled"`
	Targets   []Target            `yaml:"targets"`
	Screens   []geometry.Rect     `yaml:"screens"`
	Logging   LoggingConfig       `yaml:"logging"`

	// Source indicates where the configuration originated (defaults or a file path).
	Source string `yaml:"-"`
}

// ScrollConfig tunes how scroll deltas become drags.
type ScrollConfig struct {
	NaturalScrolling  bool     `yaml:"natural_scrolling"`
	StepCount         int      `yaml:"step_count"`
	TickInterval      Duration `yaml:"tick_interval"`
	DrainTickInterval Duration `yaml:"drain_tick_interval"`
	RestoreCursor     string   `yaml:"restore_cursor"`
	RestoreDelay      Duration `yaml:"restore_delay"`
}

// Target is a window rectangle that accepts drags, or shadows other
// targets when Ignored is set.
type Target struct {
	geometry.Rect `yaml:",inline"`
	Ignored       bool `yaml:"ignored,omitempty"`
}

// LoggingConfig defines log verbosity and formatting.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the baseline configuration used when no overrides are supplied.
func Default() Config {
	settings := engine.DefaultSettings()
	return Config{
		Scroll: ScrollConfig{
			NaturalScrolling:  settings.NaturalScrolling,
			StepCount:         settings.StepCount,
			TickInterval:      Duration(settings.TickInterval),
			DrainTickInterval: Duration(settings.DrainTickInterval),
			RestoreCursor:     string(settings.RestoreCursor),
			RestoreDelay:      Duration(settings.RestoreDelay),
		},
		CancelKey: events.KeycodeEscape,
		Enabled:   true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Source: "<defaults>",
	}
}

// Load reads configuration from disk if present, otherwise returning defaults.
// When path is empty, the loader attempts to read ./squirrel.yaml but tolerates a missing file.
func Load(path string) (Config, error) {
	cfg := Default()

	candidate := strings.TrimSpace(path)
	explicit := candidate != ""
	if !explicit {
		candidate = DefaultFileName
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return cfg, fmt.Errorf("config file %q not found", candidate)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file %q: %w", candidate, err)
	}

	if err := Decode(candidate, data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Source = candidate
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses data into cfg, choosing the format from the file extension.
// Keys absent from the document keep their current value.
func Decode(name string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		converted, err := tomlToYAML(data)
		if err != nil {
			return fmt.Errorf("parse toml %q: %w", name, err)
		}
		data = converted
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %q: %w", name, err)
	}
	return nil
}

// tomlToYAML parses a TOML document into a generic tree and re-encodes it
// so that both formats share one schema, one set of duration rules and one
// unknown-key check.
func tomlToYAML(data []byte) ([]byte, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	if len(tree) == 0 {
		return nil, nil
	}
	return yaml.Marshal(tree)
}

// Validate ensures essential configuration values are present and sensible.
func (c Config) Validate() error {
	if _, err := NormalizeLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := NormalizeFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.CancelKey < 0 {
		return errors.New("cancel_key must not be negative")
	}
	for i, target := range c.Targets {
		if target.Empty() {
			return fmt.Errorf("targets[%d]: width and height must be positive", i)
		}
	}
	for i, screen := range c.Screens {
		if screen.Empty() {
			return fmt.Errorf("screens[%d]: width and height must be positive", i)
		}
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// Settings converts the scroll section into engine settings.
func (c Config) Settings() engine.Settings {
	policy, err := engine.ParseRestorePolicy(c.Scroll.RestoreCursor)
	if err != nil {
		// Validate reports the bad value; keep it so it does.
		policy = engine.RestorePolicy(c.Scroll.RestoreCursor)
	}
	return engine.Settings{
		NaturalScrolling:  c.Scroll.NaturalScrolling,
		StepCount:         c.Scroll.StepCount,
		TickInterval:      c.Scroll.TickInterval.Std(),
		DrainTickInterval: c.Scroll.DrainTickInterval.Std(),
		Bezel:             c.Bezel,
		RestoreCursor:     policy,
		RestoreDelay:      c.Scroll.RestoreDelay.Std(),
		CancelKey:         c.CancelKey,
	}
}

// Layout converts the configured targets and screens into an eligibility
// snapshot.
func (c Config) Layout() geometry.Layout {
	layout := geometry.Layout{
		Frames:  make([]geometry.Frame, 0, len(c.Targets)),
		Screens: append([]geometry.Rect(nil), c.Screens...),
	}
	for _, target := range c.Targets {
		layout.Frames = append(layout.Frames, geometry.Frame{Rect: target.Rect, Ignored: target.Ignored})
	}
	return layout
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) normalize() {
	defaults := Default()

	if c.Scroll.StepCount == 0 {
		c.Scroll.StepCount = defaults.Scroll.StepCount
	}
	if c.Scroll.TickInterval == 0 {
		c.Scroll.TickInterval = defaults.Scroll.TickInterval
	}
	if c.Scroll.DrainTickInterval == 0 {
		c.Scroll.DrainTickInterval = defaults.Scroll.DrainTickInterval
	}
	c.Scroll.RestoreCursor = strings.ToLower(strings.TrimSpace(c.Scroll.RestoreCursor))
	if c.Scroll.RestoreCursor == "" {
		c.Scroll.RestoreCursor = defaults.Scroll.RestoreCursor
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if level, err := NormalizeLogLevel(c.Logging.Level); err == nil {
		c.Logging.Level = level
	}
	if format, err := NormalizeFormat(c.Logging.Format); err == nil {
		c.Logging.Format = format
	}
}

// NormalizeLogLevel validates and lowercases known logging levels.
func NormalizeLogLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return "info", nil
	case "debug":
		return "debug", nil
	case "warn", "warning":
		return "warn", nil
	case "error":
		return "error", nil
	default:
		return "", fmt.Errorf("unsupported log level %q", level)
	}
}

// NormalizeFormat validates and canonicalizes logging format identifiers.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return "json", nil
	case "console", "text":
		return "console", nil
	default:
		return "", fmt.Errorf("unsupported log format %q", format)
	}
}
