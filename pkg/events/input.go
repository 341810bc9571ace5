package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// KeycodeEscape is the macOS virtual keycode of the Escape key.
const KeycodeEscape = 53

// Phase classifies a scroll event by its momentum state.
type Phase uint8

const (
	// PhaseNone marks a direct gesture or a discrete wheel click.
	PhaseNone Phase = iota
	// PhaseBegan marks the first inertial event after the fingers lift.
	PhaseBegan
	// PhaseChanged marks a decaying inertial continuation.
	PhaseChanged
	// PhaseEnded marks the final inertial event.
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	default:
		return "none"
	}
}

// ParsePhase converts a textual phase name, as used in scenario scripts.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "discrete":
		return PhaseNone, nil
	case "began", "begin":
		return PhaseBegan, nil
	case "changed", "continue":
		return PhaseChanged, nil
	case "ended", "end":
		return PhaseEnded, nil
	default:
		return PhaseNone, fmt.Errorf("unknown momentum phase %q", s)
	}
}

// ScrollEvent is one vertical scroll sample.
type ScrollEvent struct {
	Point      geometry.Point
	DeltaY     float64
	Phase      Phase
	Continuous bool
	Timestamp  time.Time
}

// KeyEvent is a key-down observed by the tap.
type KeyEvent struct {
	Keycode   int
	Timestamp time.Time
}

// Input carries exactly one of Scroll or Key.
type Input struct {
	Scroll *ScrollEvent
	Key    *KeyEvent
}

// Scroll wraps a scroll event as an Input.
func Scroll(ev ScrollEvent) Input {
	return Input{Scroll: &ev}
}

// Key wraps a key event as an Input.
func Key(ev KeyEvent) Input {
	return Input{Key: &ev}
}

// Timestamp returns the time carried by whichever event is set.
func (in Input) Timestamp() time.Time {
	switch {
	case in.Scroll != nil:
		return in.Scroll.Timestamp
	case in.Key != nil:
		return in.Key.Timestamp
	default:
		return time.Time{}
	}
}
