package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/offlinefirst/squirrel/pkg/engine"
	"github.com/offlinefirst/squirrel/pkg/geometry"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != "<defaults>" {
		t.Fatalf("expected default source marker, got %q", cfg.Source)
	}
	if cfg.Scroll.StepCount != 10 {
		t.Fatalf("unexpected default step count: %d", cfg.Scroll.StepCount)
	}
	if cfg.Scroll.TickInterval.Std() != 10*time.Millisecond {
		t.Fatalf("unexpected default tick interval: %v", cfg.Scroll.TickInterval)
	}
	if !cfg.Enabled || !cfg.Scroll.NaturalScrolling {
		t.Fatalf("expected enabled natural scrolling by default")
	}
	if cfg.CancelKey != 53 {
		t.Fatalf("unexpected cancel key: %d", cfg.CancelKey)
	}
	if cfg.Settings() != engine.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", cfg.Settings())
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "squirrel.yaml")
	content := `scroll:
  natural_scrolling: false
  step_count: 5
  tick_interval: 16ms
  drain_tick_interval: 2
  restore_cursor: Cancel
  restore_delay: 0.5
bezel:
  top: 40
  bottom: 30
  leading: 12
  trailing: 12
cancel_key: 12
enabled: false
targets:
  - {x: 0, y: 0, width: 400, height: 800}
  - {x: 100, y: 100, width: 50, height: 50, ignored: true}
screens:
  - {x: 0, y: 0, width: 1440, height: 900}
logging:
  level: DEBUG
  format: text
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != cfgPath {
		t.Fatalf("unexpected source %q", cfg.Source)
	}

	settings := cfg.Settings()
	if settings.NaturalScrolling {
		t.Fatalf("expected natural scrolling off")
	}
	if settings.StepCount != 5 {
		t.Fatalf("unexpected step count: %d", settings.StepCount)
	}
	if settings.TickInterval != 16*time.Millisecond {
		t.Fatalf("unexpected tick interval: %v", settings.TickInterval)
	}
	if settings.DrainTickInterval != 2*time.Millisecond {
		t.Fatalf("expected bare integer read as milliseconds, got %v", settings.DrainTickInterval)
	}
	if settings.RestoreDelay != 500*time.Microsecond {
		t.Fatalf("unexpected restore delay: %v", settings.RestoreDelay)
	}
	if settings.RestoreCursor != engine.RestoreCancel {
		t.Fatalf("unexpected restore policy: %q", settings.RestoreCursor)
	}
	if settings.Bezel.Top != 40 || settings.Bezel.Trailing != 12 {
		t.Fatalf("unexpected bezel: %+v", settings.Bezel)
	}
	if settings.CancelKey != 12 || cfg.Enabled {
		t.Fatalf("unexpected cancel key or enabled flag")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}

	layout := cfg.Layout()
	if len(layout.Frames) != 2 || !layout.Frames[1].Ignored || layout.Frames[0].Rect.Height != 800 {
		t.Fatalf("unexpected frames: %+v", layout.Frames)
	}
	if len(layout.Screens) != 1 || layout.Screens[0].Width != 1440 {
		t.Fatalf("unexpected screens: %+v", layout.Screens)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "squirrel.toml")
	content := `cancel_key = 53

[scroll]
step_count = 8
tick_interval = "12ms"
restore_delay = 75

[[targets]]
x = 10.0
y = 20.0
width = 300.0
height = 600.0

[[screens]]
x = 0.0
y = 0.0
width = 1000.0
height = 2000.0
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scroll.StepCount != 8 {
		t.Fatalf("unexpected step count: %d", cfg.Scroll.StepCount)
	}
	if cfg.Scroll.TickInterval.Std() != 12*time.Millisecond {
		t.Fatalf("unexpected tick interval: %v", cfg.Scroll.TickInterval)
	}
	if cfg.Scroll.RestoreDelay.Std() != 75*time.Millisecond {
		t.Fatalf("unexpected restore delay: %v", cfg.Scroll.RestoreDelay)
	}
	if !cfg.Scroll.NaturalScrolling {
		t.Fatalf("expected untouched keys to keep defaults")
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].X != 10 || cfg.Targets[0].Height != 600 {
		t.Fatalf("unexpected targets: %+v", cfg.Targets)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"squirrel.yaml": "scroll:\n  step_cuont: 4\n",
		"squirrel.toml": "[scroll]\nstep_cuont = 4\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "step_cuont") {
			t.Fatalf("%s: expected unknown key error, got %v", name, err)
		}
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"steps":      func(c *Config) { c.Scroll.StepCount = -1 },
		"policy":     func(c *Config) { c.Scroll.RestoreCursor = "sometimes" },
		"bezel":      func(c *Config) { c.Bezel.Bottom = -1 },
		"target":     func(c *Config) { c.Targets = []Target{{}} },
		"screen":     func(c *Config) { c.Screens = make([]geometry.Rect, 1) },
		"log level":  func(c *Config) { c.Logging.Level = "verbose" },
		"log format": func(c *Config) { c.Logging.Format = "xml" },
		"cancel key": func(c *Config) { c.CancelKey = -5 },
		"tick":       func(c *Config) { c.Scroll.TickInterval = -1 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestMarshalRoundTripsDurations(t *testing.T) {
	out, err := Default().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "tick_interval: 10ms") {
		t.Fatalf("expected duration string in output:\n%s", out)
	}
	cfg := Default()
	if err := Decode("plan.yaml", out, &cfg); err != nil {
		t.Fatalf("decode marshalled config: %v", err)
	}
	if cfg.Scroll.RestoreDelay.Std() != 50*time.Millisecond {
		t.Fatalf("unexpected restore delay after round trip: %v", cfg.Scroll.RestoreDelay)
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if level, err := NormalizeLogLevel(" Warning "); err != nil || level != "warn" {
		t.Fatalf("unexpected level %q (%v)", level, err)
	}
	if format, err := NormalizeFormat("TEXT"); err != nil || format != "console" {
		t.Fatalf("unexpected format %q (%v)", format, err)
	}
}
