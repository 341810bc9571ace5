package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// RestorePolicy decides when the cursor is moved back to the drag origin
// after the synthetic mouse-up.
type RestorePolicy string

const (
	RestoreNever  RestorePolicy = "never"
	RestoreCancel RestorePolicy = "cancel"
	RestoreAlways RestorePolicy = "always"
)

// ParseRestorePolicy validates a textual policy.
func ParseRestorePolicy(s string) (RestorePolicy, error) {
	switch RestorePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RestoreAlways:
		return RestoreAlways, nil
	case RestoreCancel:
		return RestoreCancel, nil
	case RestoreNever:
		return RestoreNever, nil
	default:
		return "", fmt.Errorf("unsupported restore policy %q", s)
	}
}

// Settings are the user-tunable knobs of the controller.
type Settings struct {
	NaturalScrolling  bool
	StepCount         int
	TickInterval      time.Duration
	DrainTickInterval time.Duration
	Bezel             geometry.BezelInset
	RestoreCursor     RestorePolicy
	RestoreDelay      time.Duration
	CancelKey         int
}

// DefaultSettings mirrors the stock preferences of the menu-bar app.
func DefaultSettings() Settings {
	return Settings{
		NaturalScrolling:  true,
		StepCount:         10,
		TickInterval:      10 * time.Millisecond,
		DrainTickInterval: time.Millisecond,
		RestoreCursor:     RestoreAlways,
		RestoreDelay:      50 * time.Millisecond,
		CancelKey:         events.KeycodeEscape,
	}
}

// Validate reports the first setting that cannot drive the controller.
func (s Settings) Validate() error {
	if s.StepCount <= 0 {
		return errors.New("step count must be positive")
	}
	if s.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if s.DrainTickInterval <= 0 {
		return errors.New("drain tick interval must be positive")
	}
	if s.RestoreDelay < 0 {
		return errors.New("restore delay must not be negative")
	}
	if !s.Bezel.Valid() {
		return errors.New("bezel insets must not be negative")
	}
	if _, err := ParseRestorePolicy(string(s.RestoreCursor)); err != nil {
		return err
	}
	return nil
}

func (s Settings) restoreFor(reason StopReason) bool {
	switch s.RestoreCursor {
	case RestoreNever:
		return false
	case RestoreCancel:
		return reason == StopCancelled
	default:
		return reason == StopCompleted || reason == StopCancelled
	}
}
