package engine

import "sync/atomic"

// Stats counts what the controller has done since it was built.
type Stats struct {
	Interactions    int64 `json:"interactions"`
	MouseDowns      int64 `json:"mouse_downs"`
	MouseUps        int64 `json:"mouse_ups"`
	Drags           int64 `json:"drags"`
	Restores        int64 `json:"restores"`
	Retargets       int64 `json:"retargets"`
	Drains          int64 `json:"drains"`
	MomentumDropped int64 `json:"momentum_dropped"`
	Ineligible      int64 `json:"ineligible"`
	PostFailures    int64 `json:"post_failures"`
}

type counters struct {
	interactions    atomic.Int64
	mouseDowns      atomic.Int64
	mouseUps        atomic.Int64
	drags           atomic.Int64
	restores        atomic.Int64
	retargets       atomic.Int64
	drains          atomic.Int64
	momentumDropped atomic.Int64
	ineligible      atomic.Int64
	postFailures    atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Interactions:    c.interactions.Load(),
		MouseDowns:      c.mouseDowns.Load(),
		MouseUps:        c.mouseUps.Load(),
		Drags:           c.drags.Load(),
		Restores:        c.restores.Load(),
		Retargets:       c.retargets.Load(),
		Drains:          c.drains.Load(),
		MomentumDropped: c.momentumDropped.Load(),
		Ineligible:      c.ineligible.Load(),
		PostFailures:    c.postFailures.Load(),
	}
}
