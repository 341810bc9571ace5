package engine

import "github.com/offlinefirst/squirrel/pkg/events"

// MomentumGate drops inertial scroll events after a gesture was cut short,
// until the momentum stream reports that it ended.
type MomentumGate struct {
	suppress bool
}

// Engage starts suppressing mid-momentum events.
func (g *MomentumGate) Engage() {
	g.suppress = true
}

// Suppressing reports whether the latch is set.
func (g *MomentumGate) Suppressing() bool {
	return g.suppress
}

// Admit decides whether an event with the given phase may proceed. An
// "ended" event always proceeds and re-arms the gate.
func (g *MomentumGate) Admit(phase events.Phase) bool {
	if phase == events.PhaseEnded {
		g.suppress = false
		return true
	}
	if g.suppress && phase == events.PhaseChanged {
		return false
	}
	return true
}
