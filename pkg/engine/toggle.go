package engine

import "sync"

// Switch is the global enable flag shared between the host surface and the
// event loop.
type Switch struct {
	mu       sync.Mutex
	disabled bool
	signal   chan struct{}
}

// NewSwitch constructs a switch in the given state.
func NewSwitch(enabled bool) *Switch {
	return &Switch{disabled: !enabled, signal: make(chan struct{}, 1)}
}

// Enable turns translation on.
func (s *Switch) Enable() {
	s.set(true)
}

// Disable turns translation off. The loop stops any live interaction when
// it observes the change.
func (s *Switch) Disable() {
	s.set(false)
}

// Set applies the given state.
func (s *Switch) Set(enabled bool) {
	s.set(enabled)
}

// Toggle flips the state and returns the new value.
func (s *Switch) Toggle() bool {
	s.mu.Lock()
	s.disabled = !s.disabled
	enabled := !s.disabled
	s.mu.Unlock()
	s.notify()
	return enabled
}

// Enabled reports the current state.
func (s *Switch) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled
}

// Changed delivers a value after each state transition. Notifications
// coalesce.
func (s *Switch) Changed() <-chan struct{} {
	return s.signal
}

// State reports the textual state for diagnostics.
func (s *Switch) State() string {
	if s.Enabled() {
		return "enabled"
	}
	return "disabled"
}

func (s *Switch) set(enabled bool) {
	s.mu.Lock()
	changed := s.disabled == enabled
	s.disabled = !enabled
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Switch) notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}
