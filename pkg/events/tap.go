package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Options controls tap behaviour.
type Options struct {
	// Pace spaces out events emitted by the synthetic source.
	Pace   time.Duration
	Clock  func() time.Time
	Source EventSource
}

// Tap forwards input from an EventSource, stamping missing timestamps and
// keeping running totals for diagnostics.
type Tap struct {
	clock  func() time.Time
	source EventSource

	mu     sync.Mutex
	result Result
}

// EventSource emits input that should be handed to the scroll engine.
type EventSource interface {
	Stream(ctx context.Context, emit func(Input) error) error
}

// EventSourceFunc adapts a function literal to the EventSource interface.
type EventSourceFunc func(ctx context.Context, emit func(Input) error) error

// Stream calls the underlying function.
func (f EventSourceFunc) Stream(ctx context.Context, emit func(Input) error) error {
	return f(ctx, emit)
}

// Result reports what a tap forwarded.
type Result struct {
	ScrollCount   int
	MomentumCount int
	KeyCount      int
	First         time.Time
	Last          time.Time
}

// NewTap validates options and constructs a tap instance.
func NewTap(opts Options) (*Tap, error) {
	if opts.Pace < 0 {
		return nil, errors.New("pace must not be negative")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	source := opts.Source
	if source == nil {
		source = defaultEventSource(opts, clock)
	}
	return &Tap{clock: clock, source: source}, nil
}

// Stream runs the source until it finishes or ctx is cancelled, passing
// every input to emit.
func (t *Tap) Stream(ctx context.Context, emit func(Input) error) error {
	if emit == nil {
		return errors.New("emit callback must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	err := t.source.Stream(ctx, func(in Input) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if in.Scroll == nil && in.Key == nil {
			return nil
		}
		stamped := t.stamp(in)
		t.account(stamped)
		return emit(stamped)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("stream events: %w", err)
	}
	return nil
}

// Result returns the totals gathered so far.
func (t *Tap) Result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *Tap) stamp(in Input) Input {
	now := t.clock().UTC()
	if in.Scroll != nil && in.Scroll.Timestamp.IsZero() {
		ev := *in.Scroll
		ev.Timestamp = now
		in.Scroll = &ev
	}
	if in.Key != nil && in.Key.Timestamp.IsZero() {
		ev := *in.Key
		ev.Timestamp = now
		in.Key = &ev
	}
	return in
}

func (t *Tap) account(in Input) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case in.Scroll != nil:
		t.result.ScrollCount++
		if in.Scroll.Phase != PhaseNone {
			t.result.MomentumCount++
		}
	case in.Key != nil:
		t.result.KeyCount++
	}
	ts := in.Timestamp()
	if t.result.First.IsZero() {
		t.result.First = ts
	}
	t.result.Last = ts
}

func defaultSleeper(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
