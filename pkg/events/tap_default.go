//go:build !darwin

package events

import (
	"context"
	"time"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

type syntheticSource struct {
	pace  time.Duration
	clock func() time.Time
}

func defaultEventSource(opts Options, clock func() time.Time) EventSource {
	return syntheticSource{pace: opts.Pace, clock: clock}
}

// Stream replays a short trackpad flick: a direct swipe, its momentum tail,
// a second swipe, and an Escape press while it is still in flight.
func (s syntheticSource) Stream(ctx context.Context, emit func(Input) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := s.clock().UTC()
	step := s.pace
	if step <= 0 {
		step = 8 * time.Millisecond
	}
	origin := geometry.Point{X: 200, Y: 400}

	deltas := []struct {
		dy    float64
		phase Phase
	}{
		{-4, PhaseNone},
		{-12, PhaseNone},
		{-18, PhaseNone},
		{-9, PhaseNone},
		{-6, PhaseBegan},
		{-4, PhaseChanged},
		{-2, PhaseChanged},
		{-1, PhaseChanged},
		{0, PhaseEnded},
		{-10, PhaseNone},
		{-14, PhaseNone},
	}

	timeline := make([]Input, 0, len(deltas)+1)
	for i, d := range deltas {
		timeline = append(timeline, Scroll(ScrollEvent{
			Point:      origin,
			DeltaY:     d.dy,
			Phase:      d.phase,
			Continuous: true,
			Timestamp:  start.Add(time.Duration(i) * step),
		}))
	}
	timeline = append(timeline, Key(KeyEvent{
		Keycode:   KeycodeEscape,
		Timestamp: start.Add(time.Duration(len(deltas)) * step),
	}))

	for i, in := range timeline {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && s.pace > 0 {
			if err := defaultSleeper(ctx, s.pace); err != nil {
				return err
			}
		}
		if err := emit(in); err != nil {
			return err
		}
	}
	return nil
}
