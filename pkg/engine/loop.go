package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/offlinefirst/squirrel/pkg/events"
)

// Loop owns a Controller and serialises everything that touches it: input
// from the event source, ticks, deferred cursor restores, switch changes
// and configuration updates.
type Loop struct {
	controller *Controller
	sw         *Switch
	logger     *slog.Logger

	deferred chan func()
	updates  chan func(*Controller)
	done     chan struct{}
	started  atomic.Bool
	// pending is only touched from the Run goroutine.
	pending int
}

// loopClock routes deferred calls back onto the loop goroutine.
type loopClock struct {
	Clock
	loop *Loop
}

func (c loopClock) AfterFunc(d time.Duration, fn func()) {
	c.loop.pending++
	c.Clock.AfterFunc(d, func() {
		select {
		case c.loop.deferred <- fn:
		case <-c.loop.done:
		}
	})
}

// NewLoop builds a controller from opts wired to sw. A nil switch means
// always enabled.
func NewLoop(opts Options, sw *Switch) (*Loop, error) {
	if sw == nil {
		sw = NewSwitch(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := opts.Clock
	if base == nil {
		base = SystemClock{}
	}
	l := &Loop{
		sw:       sw,
		logger:   logger,
		deferred: make(chan func(), 16),
		updates:  make(chan func(*Controller)),
		done:     make(chan struct{}),
	}
	opts.Clock = loopClock{Clock: base, loop: l}
	opts.Enabled = sw.Enabled
	opts.Logger = logger
	controller, err := NewController(opts)
	if err != nil {
		return nil, err
	}
	l.controller = controller
	return l, nil
}

// Switch returns the enable switch the loop watches.
func (l *Loop) Switch() *Switch { return l.sw }

// Stats returns the controller counters. Safe for concurrent use.
func (l *Loop) Stats() Stats { return l.controller.Stats() }

// Apply runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Apply(ctx context.Context, fn func(*Controller)) error {
	if fn == nil {
		return errors.New("update must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	applied := make(chan struct{})
	select {
	case l.updates <- func(c *Controller) {
		defer close(applied)
		fn(c)
	}:
	case <-l.done:
		return errors.New("loop is not running")
	case <-ctx.Done():
		return ctx.Err()
	}
	<-applied
	return nil
}

// Run consumes source until it finishes and the controller is idle, or
// until ctx is cancelled. Any live interaction is released before Run
// returns.
func (l *Loop) Run(ctx context.Context, source events.EventSource) error {
	if source == nil {
		return errors.New("event source must not be nil")
	}
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("loop already started")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer close(l.done)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputs := make(chan events.Input, 64)
	sourceDone := make(chan error, 1)
	go func() {
		sourceDone <- source.Stream(streamCtx, func(in events.Input) error {
			select {
			case inputs <- in:
				return nil
			case <-streamCtx.Done():
				return streamCtx.Err()
			}
		})
	}()

	finished := false
	for {
		if err := ctx.Err(); err != nil {
			l.controller.Stop(StopShutdown)
			return err
		}
		if finished && len(inputs) == 0 && !l.controller.Active() && l.pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			continue
		case err := <-sourceDone:
			finished = true
			sourceDone = nil
			if err != nil && !errors.Is(err, context.Canceled) {
				l.controller.Stop(StopShutdown)
				return err
			}
			l.logger.Debug("event source finished")
		case in := <-inputs:
			l.dispatch(in)
		case <-l.controller.Ticks():
			l.controller.Tick()
		case fn := <-l.deferred:
			l.pending--
			fn()
		case fn := <-l.updates:
			fn(l.controller)
		case <-l.sw.Changed():
			enabled := l.sw.Enabled()
			l.logger.Info("translation toggled", "state", l.sw.State())
			if !enabled {
				l.controller.Stop(StopDisabled)
			}
		}
	}
}

func (l *Loop) dispatch(in events.Input) {
	switch {
	case in.Scroll != nil:
		l.controller.HandleScroll(*in.Scroll)
	case in.Key != nil:
		l.controller.HandleKey(*in.Key)
	}
}
