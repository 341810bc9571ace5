package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/offlinefirst/squirrel/pkg/engine"
	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/geometry"
	"github.com/offlinefirst/squirrel/pkg/inject"
)

// epoch anchors the manual clock so transcripts are stable.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// settleLimit bounds the ticks spent flushing a live interaction after the
// last step.
const settleLimit = 10000

// Options tune a replay.
type Options struct {
	Logger *slog.Logger
	// Settle runs the controller until idle after the last step, firing any
	// pending cursor restore.
	Settle bool
	// FailKinds makes the recorder reject posts of these kinds.
	FailKinds []inject.Kind
}

// Entry is one posted event in the transcript.
type Entry struct {
	Step   int            `json:"step"`
	At     time.Duration  `json:"at_ns"`
	Kind   string         `json:"kind"`
	Point  geometry.Point `json:"point"`
	Failed bool           `json:"failed,omitempty"`
}

// Transcript is the outcome of a replay.
type Transcript struct {
	Script   string        `json:"script,omitempty"`
	Entries  []Entry       `json:"events"`
	Stats    engine.Stats  `json:"stats"`
	Balanced bool          `json:"balanced"`
	Active   bool          `json:"active"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Run executes script against a fresh controller.
func Run(script Script, opts Options) (Transcript, error) {
	recorder := inject.NewRecorder()
	for _, kind := range opts.FailKinds {
		recorder.FailKind(kind, true)
	}
	clock := engine.NewManualClock(epoch)
	sw := engine.NewSwitch(true)
	seq := 0
	controller, err := engine.NewController(engine.Options{
		Injector: recorder,
		Settings: script.EngineSettings(),
		Layout:   script.Layout(),
		Enabled:  sw.Enabled,
		Clock:    clock,
		Logger:   opts.Logger,
		NewID: func() string {
			seq++
			return fmt.Sprintf("interaction-%d", seq)
		},
	})
	if err != nil {
		return Transcript{}, fmt.Errorf("build controller: %w", err)
	}

	r := &runner{controller: controller, recorder: recorder, clock: clock, sw: sw}
	for i, step := range script.Steps {
		r.step = i + 1
		if err := r.apply(step); err != nil {
			return Transcript{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.collect()
	}
	if opts.Settle {
		r.step = len(script.Steps) + 1
		r.settle()
		r.collect()
	}

	return Transcript{
		Script:   script.Name,
		Entries:  r.entries,
		Stats:    controller.Stats(),
		Balanced: recorder.Balanced(),
		Active:   controller.Active(),
		Elapsed:  clock.Now().Sub(epoch),
	}, nil
}

type runner struct {
	controller *engine.Controller
	recorder   *inject.Recorder
	clock      *engine.ManualClock
	sw         *engine.Switch
	step       int
	seen       int
	entries    []Entry
}

func (r *runner) apply(step Step) error {
	switch {
	case step.Scroll != nil:
		phase, err := events.ParsePhase(step.Scroll.Phase)
		if err != nil {
			return err
		}
		r.controller.HandleScroll(events.ScrollEvent{
			Point:      geometry.Point{X: step.Scroll.X, Y: step.Scroll.Y},
			DeltaY:     step.Scroll.Delta,
			Phase:      phase,
			Continuous: true,
			Timestamp:  r.clock.Now(),
		})
	case step.Ticks > 0:
		for i := 0; i < step.Ticks; i++ {
			if !r.tick() {
				break
			}
		}
	case step.Cancel:
		r.controller.HandleCancelKey()
	case step.Key != nil:
		r.controller.HandleKey(events.KeyEvent{Keycode: *step.Key, Timestamp: r.clock.Now()})
	case step.Enabled != nil:
		r.sw.Set(*step.Enabled)
		if !*step.Enabled {
			r.controller.Stop(engine.StopDisabled)
		}
	case step.Advance != nil:
		r.clock.Advance(step.Advance.Std())
	case step.Layout != nil:
		r.controller.SetLayout(layoutOf(step.Layout.Targets, step.Layout.Screens))
	}
	return nil
}

// tick advances the clock by the scheduler interval and delivers one tick.
// It reports false when no ticker is running.
func (r *runner) tick() bool {
	scheduler := r.controller.Scheduler()
	if !scheduler.Running() {
		return false
	}
	r.clock.Advance(scheduler.Interval())
	r.controller.Tick()
	return true
}

func (r *runner) settle() {
	for i := 0; i < settleLimit; i++ {
		if !r.tick() {
			break
		}
	}
	if r.controller.Active() {
		r.controller.Stop(engine.StopShutdown)
	}
	r.clock.Advance(r.controller.Settings().RestoreDelay)
}

func (r *runner) collect() {
	posted := r.recorder.Events()
	at := r.clock.Now().Sub(epoch)
	for _, ev := range posted[r.seen:] {
		r.entries = append(r.entries, Entry{
			Step:   r.step,
			At:     at,
			Kind:   ev.Kind.String(),
			Point:  ev.Point,
			Failed: ev.Failed,
		})
	}
	r.seen = len(posted)
}

// WriteText renders the transcript for humans.
func (t Transcript) WriteText(w io.Writer) error {
	if t.Script != "" {
		if _, err := fmt.Fprintf(w, "Scenario: %s\n", t.Script); err != nil {
			return err
		}
	}
	for _, e := range t.Entries {
		line := fmt.Sprintf("  step %-3d +%-8s %-13s %s", e.Step, e.At, e.Kind, e.Point)
		if e.Failed {
			line += " (failed)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	s := t.Stats
	_, err := fmt.Fprintf(w, "Interactions: %d, drags: %d, restores: %d, dropped momentum: %d, ineligible: %d, post failures: %d\nBalanced: %t, active: %t, elapsed: %s\n",
		s.Interactions, s.Drags, s.Restores, s.MomentumDropped, s.Ineligible, s.PostFailures,
		t.Balanced, t.Active, t.Elapsed)
	return err
}

// WriteJSON renders the transcript as indented JSON.
func (t Transcript) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
