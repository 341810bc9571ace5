package engine

import "time"

// Cadence names the rate a scheduler is ticking at.
type Cadence uint8

const (
	CadenceIdle Cadence = iota
	CadenceNormal
	CadenceDrain
)

func (c Cadence) String() string {
	switch c {
	case CadenceNormal:
		return "normal"
	case CadenceDrain:
		return "drain"
	default:
		return "idle"
	}
}

// Scheduler owns at most one running ticker.
type Scheduler struct {
	clock    Clock
	ticker   Ticker
	cadence  Cadence
	interval time.Duration
}

// NewScheduler returns an idle scheduler backed by clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Start replaces any running ticker with one at interval.
func (s *Scheduler) Start(cadence Cadence, interval time.Duration) {
	s.Stop()
	s.ticker = s.clock.NewTicker(interval)
	s.cadence = cadence
	s.interval = interval
}

// Stop halts the ticker. It is safe to call when idle.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.cadence = CadenceIdle
	s.interval = 0
}

// C returns the tick channel, or nil when idle so that a select on it
// blocks forever.
func (s *Scheduler) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// Running reports whether a ticker is live.
func (s *Scheduler) Running() bool { return s.ticker != nil }

// Cadence reports the current rate.
func (s *Scheduler) Cadence() Cadence { return s.cadence }

// Interval reports the current tick interval, zero when idle.
func (s *Scheduler) Interval() time.Duration { return s.interval }
