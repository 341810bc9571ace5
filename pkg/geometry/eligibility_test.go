package geometry

import "testing"

func screenOf(r Rect) func() (Rect, bool) {
	return func() (Rect, bool) { return r, true }
}

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(Point{X: 10, Y: 20}) {
		t.Fatalf("expected top-left corner to be inside")
	}
	if r.Contains(Point{X: 110, Y: 30}) {
		t.Fatalf("expected trailing edge to be outside")
	}
	if r.Contains(Point{X: 50, Y: 70}) {
		t.Fatalf("expected bottom edge to be outside")
	}
	if (Rect{Width: 0, Height: 10}).Contains(Point{}) {
		t.Fatalf("expected empty rect to contain nothing")
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 200}
	got := r.Inset(BezelInset{Top: 10, Bottom: 20, Leading: 5, Trailing: 15})
	want := Rect{X: 5, Y: 10, Width: 80, Height: 170}
	if got != want {
		t.Fatalf("unexpected inset rect %v, want %v", got, want)
	}
}

func TestEligibleIgnoredFrameTakesPriority(t *testing.T) {
	frames := []Frame{
		{Rect: Rect{X: 0, Y: 0, Width: 400, Height: 800}},
		{Rect: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Ignored: true},
	}
	screen := screenOf(Rect{Width: 1440, Height: 900})

	if v := Eligible(Point{X: 120, Y: 120}, frames, screen, BezelInset{}); v != RejectedIgnored {
		t.Fatalf("expected ignored verdict, got %s", v)
	}
	if v := Eligible(Point{X: 300, Y: 300}, frames, screen, BezelInset{}); v != Accepted {
		t.Fatalf("expected point outside the ignored window to be accepted, got %s", v)
	}
}

func TestEligibleRejectsPointOutsideCandidates(t *testing.T) {
	frames := []Frame{{Rect: Rect{X: 0, Y: 0, Width: 100, Height: 100}}}
	if v := Eligible(Point{X: 500, Y: 500}, frames, screenOf(Rect{Width: 1440, Height: 900}), BezelInset{}); v != RejectedNoTarget {
		t.Fatalf("expected no_target, got %s", v)
	}
}

func TestEligibleWithoutScreenIsRejected(t *testing.T) {
	frames := []Frame{{Rect: Rect{X: 0, Y: 0, Width: 100, Height: 100}}}
	missing := func() (Rect, bool) { return Rect{}, false }
	if v := Eligible(Point{X: 50, Y: 50}, frames, missing, BezelInset{}); v != RejectedNoScreen {
		t.Fatalf("expected no_screen, got %s", v)
	}
	if v := Eligible(Point{X: 50, Y: 50}, frames, nil, BezelInset{}); v != RejectedNoScreen {
		t.Fatalf("expected no_screen for nil resolver, got %s", v)
	}
}

func TestEligibleBezelExclusionOnlyWhenFullScreen(t *testing.T) {
	frames := []Frame{{Rect: Rect{X: 100, Y: 100, Width: 400, Height: 800}}}
	inset := BezelInset{Top: 40, Bottom: 40, Leading: 20, Trailing: 20}
	inBezel := Point{X: 110, Y: 500}
	inside := Point{X: 300, Y: 500}

	landscape := screenOf(Rect{Width: 1440, Height: 900})
	if v := Eligible(inBezel, frames, landscape, inset); v != RejectedBezel {
		t.Fatalf("expected bezel rejection in full-screen presentation, got %s", v)
	}
	if v := Eligible(inside, frames, landscape, inset); v != Accepted {
		t.Fatalf("expected interior point accepted, got %s", v)
	}

	// Equal ratios are not strictly greater, so the frame counts as windowed.
	portrait := screenOf(Rect{Width: 1000, Height: 2000})
	if v := Eligible(inBezel, frames, portrait, inset); v != Accepted {
		t.Fatalf("expected bezel point accepted in windowed presentation, got %s", v)
	}
}

func TestLayoutEvaluateResolvesScreen(t *testing.T) {
	layout := Layout{
		Frames: []Frame{{Rect: Rect{X: 1500, Y: 0, Width: 300, Height: 600}}},
		Screens: []Rect{
			{X: 0, Y: 0, Width: 1440, Height: 900},
			{X: 1440, Y: 0, Width: 1920, Height: 1080},
		},
	}
	if v := layout.Evaluate(Point{X: 1600, Y: 300}, BezelInset{}); !v.OK() {
		t.Fatalf("expected point on secondary display to be accepted, got %s", v)
	}

	layout.Screens = layout.Screens[:1]
	if v := layout.Evaluate(Point{X: 1600, Y: 300}, BezelInset{}); v != RejectedNoScreen {
		t.Fatalf("expected no_screen once the display disappears, got %s", v)
	}
}
