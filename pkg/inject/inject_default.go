//go:build !darwin || !cgo

package inject

import "github.com/offlinefirst/squirrel/pkg/geometry"

const provider = "unavailable"

type unavailableInjector struct{}

// New returns a poster that rejects every event. Synthetic input needs
// CoreGraphics, which is only reachable from darwin builds with cgo.
func New() Injector {
	return unavailableInjector{}
}

func (unavailableInjector) MouseDown(geometry.Point) error    { return ErrInjectionUnavailable }
func (unavailableInjector) MouseUp(geometry.Point) error      { return ErrInjectionUnavailable }
func (unavailableInjector) MouseDragged(geometry.Point) error { return ErrInjectionUnavailable }
func (unavailableInjector) MouseMoved(geometry.Point) error   { return ErrInjectionUnavailable }
