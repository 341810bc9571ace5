// Package inject posts synthetic left-button mouse events at absolute screen
// points. Posting is best-effort: callers log failures and carry on.
package inject

import (
	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// Kind identifies the synthetic event being posted.
type Kind uint8

const (
	KindMouseDown Kind = iota + 1
	KindMouseUp
	KindMouseDragged
	KindMouseMoved
)

func (k Kind) String() string {
	switch k {
	case KindMouseDown:
		return "mouse_down"
	case KindMouseUp:
		return "mouse_up"
	case KindMouseDragged:
		return "mouse_dragged"
	case KindMouseMoved:
		return "mouse_moved"
	default:
		return "unknown"
	}
}

// Injector posts synthetic left-button events into the OS input pipeline.
type Injector interface {
	MouseDown(geometry.Point) error
	MouseUp(geometry.Point) error
	MouseDragged(geometry.Point) error
	MouseMoved(geometry.Point) error
}

// Post dispatches a single event of the given kind.
func Post(inj Injector, kind Kind, p geometry.Point) error {
	switch kind {
	case KindMouseDown:
		return inj.MouseDown(p)
	case KindMouseUp:
		return inj.MouseUp(p)
	case KindMouseDragged:
		return inj.MouseDragged(p)
	case KindMouseMoved:
		return inj.MouseMoved(p)
	default:
		return ErrUnknownKind
	}
}
