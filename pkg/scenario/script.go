// Package scenario replays scripted scroll gestures against the engine with a
// recording injector and a manual clock, producing a deterministic
// transcript of the synthetic events that would have been posted.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/offlinefirst/squirrel/pkg/config"
	"github.com/offlinefirst/squirrel/pkg/engine"
	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// Script is a scenario file.
type Script struct {
	Settings  config.ScrollConfig `yaml:"settings"`
	Bezel     geometry.BezelInset `yaml:"bezel"`
	CancelKey int                 `yaml:"cancel_key"`
	Screens   []geometry.Rect     `yaml:"screens"`
	Targets   []config.Target     `yaml:"targets"`
	Steps     []Step              `yaml:"steps"`

	Name string `yaml:"-"`
}

// Step performs exactly one action.
type Step struct {
	Scroll  *ScrollStep      `yaml:"scroll,omitempty"`
	Ticks   int              `yaml:"ticks,omitempty"`
	Cancel  bool             `yaml:"cancel,omitempty"`
	Key     *int             `yaml:"key,omitempty"`
	Enabled *bool            `yaml:"enabled,omitempty"`
	Advance *config.Duration `yaml:"advance,omitempty"`
	Layout  *LayoutStep      `yaml:"layout,omitempty"`
}

// ScrollStep describes one scroll event.
type ScrollStep struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Delta float64 `yaml:"delta"`
	Phase string  `yaml:"phase,omitempty"`
}

// LayoutStep replaces the targets and screens mid-script.
type LayoutStep struct {
	Screens []geometry.Rect `yaml:"screens"`
	Targets []config.Target `yaml:"targets"`
}

// Load reads and validates a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read scenario %q: %w", path, err)
	}
	script, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("scenario %q: %w", path, err)
	}
	script.Name = path
	return script, nil
}

// Parse decodes a script, filling unspecified settings from the defaults.
func Parse(data []byte) (Script, error) {
	defaults := config.Default()
	script := Script{
		Settings:  defaults.Scroll,
		CancelKey: defaults.CancelKey,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		return Script{}, fmt.Errorf("decode: %w", err)
	}
	if err := script.Validate(); err != nil {
		return Script{}, err
	}
	return script, nil
}

// Validate checks that every step names a single action.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	if err := s.EngineSettings().Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("step %d: expected exactly one action, found %d", i+1, n)
		}
		if step.Ticks < 0 {
			return fmt.Errorf("step %d: ticks must not be negative", i+1)
		}
		if step.Advance != nil && *step.Advance < 0 {
			return fmt.Errorf("step %d: advance must not be negative", i+1)
		}
		if step.Scroll != nil {
			if _, err := events.ParsePhase(step.Scroll.Phase); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// EngineSettings converts the script's settings block.
func (s Script) EngineSettings() engine.Settings {
	cfg := config.Default()
	cfg.Scroll = s.Settings
	cfg.Bezel = s.Bezel
	cfg.CancelKey = s.CancelKey
	return cfg.Settings()
}

// Layout converts the script's initial targets and screens.
func (s Script) Layout() geometry.Layout {
	return layoutOf(s.Targets, s.Screens)
}

func layoutOf(targets []config.Target, screens []geometry.Rect) geometry.Layout {
	cfg := config.Config{Targets: targets, Screens: screens}
	return cfg.Layout()
}

func (st Step) actions() int {
	n := 0
	if st.Scroll != nil {
		n++
	}
	if st.Ticks > 0 {
		n++
	}
	if st.Cancel {
		n++
	}
	if st.Key != nil {
		n++
	}
	if st.Enabled != nil {
		n++
	}
	if st.Advance != nil {
		n++
	}
	if st.Layout != nil {
		n++
	}
	return n
}
