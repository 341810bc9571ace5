package engine

import (
	"math"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// completionTolerance is the distance, in points, below which the remaining
// delta is considered applied.
const completionTolerance = 1e-6

// Interaction is the state of one synthetic drag. The controller owns the
// only live instance; callers receive copies.
type Interaction struct {
	id             string
	initialPoint   geometry.Point
	targetDelta    float64
	deltaCompleted float64
	deltaPerStep   float64
	draining       bool
}

func newInteraction(id string, origin geometry.Point, delta float64, steps int) *Interaction {
	return &Interaction{
		id:           id,
		initialPoint: origin,
		targetDelta:  delta,
		deltaPerStep: delta / float64(steps),
	}
}

// ID identifies the interaction in logs.
func (i Interaction) ID() string { return i.id }

// InitialPoint is where the synthetic mouse-down was posted.
func (i Interaction) InitialPoint() geometry.Point { return i.initialPoint }

// TargetDelta is the total vertical distance requested so far.
func (i Interaction) TargetDelta() float64 { return i.targetDelta }

// DeltaCompleted is the vertical distance already dragged.
func (i Interaction) DeltaCompleted() float64 { return i.deltaCompleted }

// DeltaPerStep is the distance applied on each tick.
func (i Interaction) DeltaPerStep() float64 { return i.deltaPerStep }

// Draining reports whether the cursor left the target and the remaining
// delta is being flushed at the drain cadence.
func (i Interaction) Draining() bool { return i.draining }

// Position is the current synthetic drag location.
func (i Interaction) Position() geometry.Point {
	return i.initialPoint.OffsetY(i.deltaCompleted)
}

// IsComplete reports whether no further step is owed.
func (i Interaction) IsComplete() bool {
	remaining := i.targetDelta - i.deltaCompleted
	if math.Abs(remaining) <= completionTolerance {
		return true
	}
	if i.deltaPerStep == 0 {
		return true
	}
	// A step pointing away from the target means it was already passed.
	return (remaining > 0) != (i.deltaPerStep > 0)
}

// retarget adds delta to the goal and spreads whatever is still owed over a
// fresh set of steps, keeping progress already made.
func (i *Interaction) retarget(delta float64, steps int) {
	i.targetDelta += delta
	i.deltaPerStep = (i.targetDelta - i.deltaCompleted) / float64(steps)
}

func (i Interaction) nextPoint() geometry.Point {
	return i.initialPoint.OffsetY(i.deltaCompleted + i.deltaPerStep)
}

func (i *Interaction) advance() {
	i.deltaCompleted += i.deltaPerStep
	if math.Abs(i.targetDelta-i.deltaCompleted) <= completionTolerance {
		i.deltaCompleted = i.targetDelta
	}
}
