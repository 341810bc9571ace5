// Package geometry holds the screen-space primitives shared by the scroll
// engine and decides whether a cursor position may receive a synthetic drag.
//
// Coordinates follow the Quartz global display space: the origin is the
// top-left corner of the main display and y grows downwards.
package geometry

import "fmt"

// Point is an absolute screen coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// OffsetY returns the point moved by dy along the vertical axis.
func (p Point) OffsetY(dy float64) Point {
	return Point{X: p.X, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r. The leading and top edges are
// inclusive, the trailing and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// AspectRatio returns height divided by width, or zero for empty rectangles.
func (r Rect) AspectRatio() float64 {
	if r.Empty() {
		return 0
	}
	return r.Height / r.Width
}

// Inset shrinks the rectangle by the bezel offsets on each side.
func (r Rect) Inset(in BezelInset) Rect {
	return Rect{
		X:      r.X + in.Leading,
		Y:      r.Y + in.Top,
		Width:  r.Width - (in.Leading + in.Trailing),
		Height: r.Height - (in.Top + in.Bottom),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.1f,%.1f %.1fx%.1f]", r.X, r.Y, r.Width, r.Height)
}

// BezelInset describes the non-interactive device chrome around a
// full-screen simulator presentation.
type BezelInset struct {
	Top      float64 `json:"top" yaml:"top" toml:"top"`
	Bottom   float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Leading  float64 `json:"leading" yaml:"leading" toml:"leading"`
	Trailing float64 `json:"trailing" yaml:"trailing" toml:"trailing"`
}

// Valid reports whether every offset is non-negative.
func (b BezelInset) Valid() bool {
	return b.Top >= 0 && b.Bottom >= 0 && b.Leading >= 0 && b.Trailing >= 0
}

// Frame is a window rectangle supplied by the host, either a drag target or
// a window that must shadow any target beneath it.
type Frame struct {
	Rect    Rect `json:"rect"`
	Ignored bool `json:"ignored,omitempty"`
}
