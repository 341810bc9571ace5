package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

func TestNewTapValidation(t *testing.T) {
	if _, err := NewTap(Options{Pace: -time.Millisecond}); err == nil {
		t.Fatalf("expected error for negative pace")
	}
}

func TestTapStampsAndCounts(t *testing.T) {
	base := time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC)
	stamped := base.Add(-time.Minute)
	source := EventSourceFunc(func(ctx context.Context, emit func(Input) error) error {
		inputs := []Input{
			Scroll(ScrollEvent{Point: geometry.Point{X: 1, Y: 2}, DeltaY: -3}),
			Scroll(ScrollEvent{DeltaY: -1, Phase: PhaseChanged, Timestamp: stamped}),
			{},
			Key(KeyEvent{Keycode: KeycodeEscape}),
		}
		for _, in := range inputs {
			if err := emit(in); err != nil {
				return err
			}
		}
		return nil
	})

	tap, err := NewTap(Options{Source: source, Clock: func() time.Time { return base }})
	if err != nil {
		t.Fatalf("new tap: %v", err)
	}

	var got []Input
	if err := tap.Stream(context.Background(), func(in Input) error {
		got = append(got, in)
		return nil
	}); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected empty input to be skipped, got %d inputs", len(got))
	}
	if !got[0].Scroll.Timestamp.Equal(base) {
		t.Fatalf("expected missing timestamp to be stamped, got %s", got[0].Scroll.Timestamp)
	}
	if !got[1].Scroll.Timestamp.Equal(stamped) {
		t.Fatalf("expected existing timestamp to be preserved, got %s", got[1].Scroll.Timestamp)
	}

	res := tap.Result()
	if res.ScrollCount != 2 || res.MomentumCount != 1 || res.KeyCount != 1 {
		t.Fatalf("unexpected totals %+v", res)
	}
	if !res.First.Equal(base) || !res.Last.Equal(base) {
		t.Fatalf("unexpected first/last %s %s", res.First, res.Last)
	}
}

func TestTapWrapsSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	tap, err := NewTap(Options{Source: EventSourceFunc(func(context.Context, func(Input) error) error { return boom })})
	if err != nil {
		t.Fatalf("new tap: %v", err)
	}
	err = tap.Stream(context.Background(), func(Input) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestTapRespectsCancellation(t *testing.T) {
	tap, err := NewTap(Options{Source: EventSourceFunc(func(ctx context.Context, emit func(Input) error) error {
		return emit(Key(KeyEvent{Keycode: 1}))
	})})
	if err != nil {
		t.Fatalf("new tap: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tap.Stream(ctx, func(Input) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestParsePhase(t *testing.T) {
	cases := map[string]Phase{"": PhaseNone, "began": PhaseBegan, "Changed": PhaseChanged, "end": PhaseEnded}
	for in, want := range cases {
		got, err := ParsePhase(in)
		if err != nil || got != want {
			t.Fatalf("ParsePhase(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParsePhase("sideways"); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
}
