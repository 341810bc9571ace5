// Package engine converts vertical scroll events over a simulator window into
// a stream of synthetic left-button drags.
//
// A Controller holds at most one Interaction. A scroll over an eligible
// point posts a mouse-down and starts a ticker; each tick posts one drag of
// DeltaPerStep. Further scrolls re-target the live interaction. When the
// cursor leaves the target the remainder is flushed at a faster cadence,
// and the MomentumGate swallows the inertial tail of the gesture. Loop runs
// a Controller on a single goroutine against an events.EventSource.
package engine
