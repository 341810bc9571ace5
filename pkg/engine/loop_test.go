package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/inject"
)

func fastSettings() Settings {
	s := DefaultSettings()
	s.TickInterval = time.Millisecond
	s.RestoreDelay = time.Millisecond
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestLoopRunsUntilIdle(t *testing.T) {
	recorder := inject.NewRecorder()
	loop, err := NewLoop(Options{Injector: recorder, Settings: fastSettings(), Layout: testLayout()}, nil)
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	source := events.EventSourceFunc(func(ctx context.Context, emit func(events.Input) error) error {
		return emit(events.Scroll(events.ScrollEvent{Point: testOrigin, DeltaY: 100}))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Run(ctx, source); err != nil {
		t.Fatalf("run: %v", err)
	}

	if recorder.Count(inject.KindMouseDragged) != 10 {
		t.Fatalf("expected ten drags, got %d", recorder.Count(inject.KindMouseDragged))
	}
	if recorder.Count(inject.KindMouseMoved) != 1 {
		t.Fatalf("expected restore before Run returned")
	}
	if !recorder.Balanced() {
		t.Fatalf("expected balanced down/up")
	}
	if loop.Stats().Restores != 1 {
		t.Fatalf("expected restore counted, got %+v", loop.Stats())
	}
	if err := loop.Run(ctx, source); err == nil {
		t.Fatalf("expected second run to fail")
	}
}

func blockingSource(ev events.ScrollEvent) events.EventSource {
	return events.EventSourceFunc(func(ctx context.Context, emit func(events.Input) error) error {
		if err := emit(events.Scroll(ev)); err != nil {
			return err
		}
		<-ctx.Done()
		return ctx.Err()
	})
}

func TestLoopShutdownReleasesButton(t *testing.T) {
	recorder := inject.NewRecorder()
	settings := fastSettings()
	settings.TickInterval = time.Hour
	loop, err := NewLoop(Options{Injector: recorder, Settings: settings, Layout: testLayout()}, nil)
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx, blockingSource(events.ScrollEvent{Point: testOrigin, DeltaY: 50}))
	}()
	waitFor(t, func() bool { return recorder.Count(inject.KindMouseDown) == 1 })
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not exit on cancellation")
	}
	if recorder.Count(inject.KindMouseUp) != 1 || recorder.Count(inject.KindMouseMoved) != 0 {
		t.Fatalf("expected release without restore, got %+v", recorder.Events())
	}
}

func TestLoopDisableStopsInteraction(t *testing.T) {
	recorder := inject.NewRecorder()
	settings := fastSettings()
	settings.TickInterval = time.Hour
	sw := NewSwitch(true)
	loop, err := NewLoop(Options{Injector: recorder, Settings: settings, Layout: testLayout()}, sw)
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx, blockingSource(events.ScrollEvent{Point: testOrigin, DeltaY: 50}))
	}()
	waitFor(t, func() bool { return recorder.Count(inject.KindMouseDown) == 1 })

	sw.Disable()
	waitFor(t, func() bool { return recorder.Count(inject.KindMouseUp) == 1 })

	var steps int
	if err := loop.Apply(ctx, func(c *Controller) { steps = c.Settings().StepCount }); err != nil {
		t.Fatalf("apply: %v", err)
	}
	cancel()
	<-done
	if steps != 10 {
		t.Fatalf("expected apply to observe settings, got %d", steps)
	}
	if err := loop.Apply(context.Background(), func(*Controller) {}); err == nil {
		t.Fatalf("expected apply to fail after the loop exits")
	}
}

func TestLoopPropagatesSourceError(t *testing.T) {
	loop, err := NewLoop(Options{Injector: inject.NewRecorder(), Settings: fastSettings(), Layout: testLayout()}, nil)
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	boom := errors.New("tap failed")
	source := events.EventSourceFunc(func(context.Context, func(events.Input) error) error { return boom })
	if err := loop.Run(context.Background(), source); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
