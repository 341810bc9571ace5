package engine

import (
	"sort"
	"sync"
	"time"
)

// Ticker is the subset of *time.Ticker the scheduler relies on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides tickers and deferred calls.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, fn func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

func (SystemClock) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// ManualClock is a deterministic Clock for tests and scenario replay. Its
// tickers never fire on their own; deferred calls run from Advance on the
// caller's goroutine.
type ManualClock struct {
	mu       sync.Mutex
	now      time.Time
	seq      int
	tickers  []*ManualTicker
	deferred []deferredCall
}

type deferredCall struct {
	due time.Time
	seq int
	fn  func()
}

// NewManualClock starts a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTicker{interval: d, ch: make(chan time.Time, 1)}
	m.tickers = append(m.tickers, t)
	return t
}

func (m *ManualClock) AfterFunc(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.deferred = append(m.deferred, deferredCall{due: m.now.Add(d), seq: m.seq, fn: fn})
}

// Advance moves the clock forward and runs every deferred call that came
// due, in due order. It returns how many ran.
func (m *ManualClock) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now
	var due, later []deferredCall
	for _, call := range m.deferred {
		if call.due.After(now) {
			later = append(later, call)
		} else {
			due = append(due, call)
		}
	}
	m.deferred = later
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, call := range due {
		call.fn()
	}
	return len(due)
}

// Pending reports deferred calls that have not run yet.
func (m *ManualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deferred)
}

// Active returns the ticker that has not been stopped, if any.
func (m *ManualClock) Active() (*ManualTicker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.tickers) - 1; i >= 0; i-- {
		if !m.tickers[i].Stopped() {
			return m.tickers[i], true
		}
	}
	return nil, false
}

// ManualTicker only fires when told to.
type ManualTicker struct {
	mu       sync.Mutex
	interval time.Duration
	stopped  bool
	ch       chan time.Time
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Interval is the cadence the ticker was created with.
func (t *ManualTicker) Interval() time.Duration { return t.interval }

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick unless the ticker is stopped or a tick is already
// buffered.
func (t *ManualTicker) Fire(at time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	select {
	case t.ch <- at:
		return true
	default:
		return false
	}
}
