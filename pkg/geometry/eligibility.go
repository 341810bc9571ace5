package geometry

// Verdict records the outcome of an eligibility test.
type Verdict uint8

const (
	// Accepted means the point may receive a synthetic drag.
	Accepted Verdict = iota
	// RejectedIgnored means an ignored window covers the point.
	RejectedIgnored
	// RejectedNoTarget means no candidate frame contains the point.
	RejectedNoTarget
	// RejectedNoScreen means the display under the cursor is unknown.
	RejectedNoScreen
	// RejectedBezel means the point falls on full-screen device chrome.
	RejectedBezel
)

// OK reports whether the verdict accepts the point.
func (v Verdict) OK() bool {
	return v == Accepted
}

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedIgnored:
		return "ignored_window"
	case RejectedNoTarget:
		return "no_target"
	case RejectedNoScreen:
		return "no_screen"
	case RejectedBezel:
		return "bezel"
	default:
		return "unknown"
	}
}

// Layout is a snapshot of the host's windows and displays. It is replaced
// wholesale whenever the host recomputes it.
type Layout struct {
	Frames  []Frame
	Screens []Rect
}

// ScreenFor returns the first display containing p.
func (l Layout) ScreenFor(p Point) (Rect, bool) {
	for _, screen := range l.Screens {
		if screen.Contains(p) {
			return screen, true
		}
	}
	return Rect{}, false
}

// Evaluate runs Eligible against the layout, resolving the display under p.
func (l Layout) Evaluate(p Point, inset BezelInset) Verdict {
	return Eligible(p, l.Frames, func() (Rect, bool) { return l.ScreenFor(p) }, inset)
}

// Eligible decides whether p is a valid drag-injection target.
//
// Ignored frames win over candidates regardless of order. The first
// candidate containing p is then compared against the display: when its
// height/width ratio is strictly greater than the display's the simulator is
// presented full-screen, so the bezel inset is carved out before testing
// containment again. screen is only consulted once a candidate matched.
func Eligible(p Point, frames []Frame, screen func() (Rect, bool), inset BezelInset) Verdict {
	for _, frame := range frames {
		if frame.Ignored && frame.Rect.Contains(p) {
			return RejectedIgnored
		}
	}

	var candidate *Rect
	for i := range frames {
		if !frames[i].Ignored && frames[i].Rect.Contains(p) {
			candidate = &frames[i].Rect
			break
		}
	}
	if candidate == nil {
		return RejectedNoTarget
	}

	if screen == nil {
		return RejectedNoScreen
	}
	display, ok := screen()
	if !ok || display.Empty() {
		return RejectedNoScreen
	}

	if candidate.AspectRatio() > display.AspectRatio() {
		if !candidate.Inset(inset).Contains(p) {
			return RejectedBezel
		}
	}
	return Accepted
}
