package engine

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/geometry"
	"github.com/offlinefirst/squirrel/pkg/inject"
)

// StopReason records why an interaction was torn down.
type StopReason uint8

const (
	StopCompleted StopReason = iota
	StopCancelled
	StopDisabled
	StopShutdown
)

func (r StopReason) String() string {
	switch r {
	case StopCompleted:
		return "completed"
	case StopCancelled:
		return "cancelled"
	case StopDisabled:
		return "disabled"
	case StopShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Options configure a Controller.
type Options struct {
	Injector inject.Injector
	Settings Settings
	Layout   geometry.Layout
	// Enabled reports the global switch. Nil means always enabled.
	Enabled func() bool
	Clock   Clock
	Logger  *slog.Logger
	NewID   func() string
}

// Controller turns scroll events into synthetic drags. It is not safe for
// concurrent use: every method must be called from the goroutine that owns
// it, and Clock.AfterFunc callbacks must be delivered there too. Loop
// provides that arrangement.
type Controller struct {
	injector  inject.Injector
	settings  Settings
	layout    geometry.Layout
	enabled   func() bool
	clock     Clock
	logger    *slog.Logger
	newID     func() string
	scheduler *Scheduler
	gate      MomentumGate
	active    *Interaction
	stats     counters
}

// NewController validates options and returns an idle controller.
func NewController(opts Options) (*Controller, error) {
	if opts.Injector == nil {
		return nil, errors.New("injector must not be nil")
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	enabled := opts.Enabled
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Controller{
		injector:  opts.Injector,
		settings:  opts.Settings,
		layout:    opts.Layout,
		enabled:   enabled,
		clock:     clock,
		logger:    logger,
		newID:     newID,
		scheduler: NewScheduler(clock),
	}, nil
}

// HandleScroll processes one scroll event.
func (c *Controller) HandleScroll(ev events.ScrollEvent) {
	if !c.enabled() {
		c.Stop(StopDisabled)
		return
	}
	if !c.gate.Admit(ev.Phase) {
		c.stats.momentumDropped.Add(1)
		return
	}

	verdict := c.layout.Evaluate(ev.Point, c.settings.Bezel)
	if !verdict.OK() {
		c.stats.ineligible.Add(1)
		c.exit(ev, verdict)
		return
	}

	delta := ev.DeltaY
	if !c.settings.NaturalScrolling {
		delta = -delta
	}

	if c.active == nil {
		if delta == 0 {
			return
		}
		c.begin(ev.Point, delta)
		return
	}

	c.active.retarget(delta, c.settings.StepCount)
	c.stats.retargets.Add(1)
	if c.active.draining {
		c.active.draining = false
		c.scheduler.Start(CadenceNormal, c.settings.TickInterval)
		c.logger.Debug("interaction re-entered target", "interaction", c.active.id)
	}
}

// HandleKey routes key-downs; only the cancel key has an effect.
func (c *Controller) HandleKey(ev events.KeyEvent) {
	if ev.Keycode == c.settings.CancelKey {
		c.HandleCancelKey()
	}
}

// HandleCancelKey aborts the live interaction and suppresses the rest of
// its momentum.
func (c *Controller) HandleCancelKey() {
	if c.active == nil {
		return
	}
	c.gate.Engage()
	c.Stop(StopCancelled)
}

// Tick advances the live interaction by one step.
func (c *Controller) Tick() {
	it := c.active
	if it == nil {
		c.scheduler.Stop()
		return
	}
	if it.IsComplete() {
		c.Stop(StopCompleted)
		return
	}
	c.post(inject.KindMouseDragged, it.nextPoint())
	c.stats.drags.Add(1)
	it.advance()
	if it.IsComplete() {
		c.Stop(StopCompleted)
	}
}

// Stop tears down the live interaction: the ticker stops, a mouse-up is
// posted at the current drag position, and the cursor restore is queued
// when the policy asks for it. Calling Stop while idle does nothing.
func (c *Controller) Stop(reason StopReason) {
	c.scheduler.Stop()
	it := c.active
	if it == nil {
		return
	}
	c.active = nil

	c.post(inject.KindMouseUp, it.Position())
	c.stats.mouseUps.Add(1)
	c.logger.Debug("interaction stopped",
		"interaction", it.id,
		"reason", reason.String(),
		"delta_completed", it.deltaCompleted,
		"target_delta", it.targetDelta,
	)

	if !c.settings.restoreFor(reason) {
		return
	}
	origin := it.initialPoint
	id := it.id
	c.clock.AfterFunc(c.settings.RestoreDelay, func() {
		if err := inject.Post(c.injector, inject.KindMouseMoved, origin); err != nil {
			c.stats.postFailures.Add(1)
			c.logger.Warn("restore cursor failed", "interaction", id, "error", err)
			return
		}
		c.stats.restores.Add(1)
	})
}

// UpdateSettings swaps the settings. A live interaction keeps its step
// size; a changed tick interval takes effect immediately.
func (c *Controller) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	if c.active == nil {
		return nil
	}
	switch c.scheduler.Cadence() {
	case CadenceNormal:
		if c.scheduler.Interval() != s.TickInterval {
			c.scheduler.Start(CadenceNormal, s.TickInterval)
		}
	case CadenceDrain:
		if c.scheduler.Interval() != s.DrainTickInterval {
			c.scheduler.Start(CadenceDrain, s.DrainTickInterval)
		}
	}
	return nil
}

// SetLayout replaces the window and screen snapshot.
func (c *Controller) SetLayout(l geometry.Layout) {
	c.layout = l
}

// Settings returns the current settings.
func (c *Controller) Settings() Settings { return c.settings }

// Active reports whether an interaction is live.
func (c *Controller) Active() bool { return c.active != nil }

// Current returns a copy of the live interaction.
func (c *Controller) Current() (Interaction, bool) {
	if c.active == nil {
		return Interaction{}, false
	}
	return *c.active, true
}

// Suppressing reports whether the momentum gate is engaged.
func (c *Controller) Suppressing() bool { return c.gate.Suppressing() }

// Ticks is the channel the owner should select on to drive Tick. It is nil
// while idle.
func (c *Controller) Ticks() <-chan time.Time {
	return c.scheduler.C()
}

// Scheduler exposes the tick scheduler for the owning loop.
func (c *Controller) Scheduler() *Scheduler { return c.scheduler }

// Stats returns a snapshot of the counters. Safe for concurrent use.
func (c *Controller) Stats() Stats { return c.stats.snapshot() }

func (c *Controller) begin(origin geometry.Point, delta float64) {
	it := newInteraction(c.newID(), origin, delta, c.settings.StepCount)
	c.active = it
	c.stats.interactions.Add(1)
	c.post(inject.KindMouseDown, origin)
	c.stats.mouseDowns.Add(1)
	c.scheduler.Start(CadenceNormal, c.settings.TickInterval)
	c.logger.Debug("interaction started",
		"interaction", it.id,
		"x", origin.X,
		"y", origin.Y,
		"target_delta", delta,
	)
}

// exit handles an event outside every target. A live interaction keeps
// running at the drain cadence until the owed delta is flushed.
func (c *Controller) exit(ev events.ScrollEvent, verdict geometry.Verdict) {
	if c.active == nil {
		return
	}
	if ev.Phase != events.PhaseEnded {
		c.gate.Engage()
	}
	if c.active.draining {
		return
	}
	c.active.draining = true
	c.stats.drains.Add(1)
	c.scheduler.Start(CadenceDrain, c.settings.DrainTickInterval)
	c.logger.Debug("interaction draining",
		"interaction", c.active.id,
		"verdict", verdict.String(),
	)
}

func (c *Controller) post(kind inject.Kind, p geometry.Point) {
	if err := inject.Post(c.injector, kind, p); err != nil {
		c.stats.postFailures.Add(1)
		c.logger.Warn("post synthetic event failed",
			"kind", kind.String(),
			"x", p.X,
			"y", p.Y,
			"error", err,
		)
	}
}
