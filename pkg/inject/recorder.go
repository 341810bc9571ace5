package inject

import (
	"sync"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

// Posted is one call observed by a Recorder.
type Posted struct {
	Kind   Kind           `json:"kind"`
	Point  geometry.Point `json:"point"`
	Failed bool           `json:"failed,omitempty"`
}

// Recorder is an Injector that keeps every posted event in memory. It is
// used by the replay command and by tests. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	posted []Posted
	fail   map[Kind]bool
}

// NewRecorder returns an empty recorder that accepts every post.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[Kind]bool)}
}

// FailKind makes every subsequent post of kind return ErrEventCreation.
// Failed posts are still recorded with Failed set.
func (r *Recorder) FailKind(kind Kind, fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail == nil {
		r.fail = make(map[Kind]bool)
	}
	r.fail[kind] = fail
}

func (r *Recorder) record(kind Kind, p geometry.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	failed := r.fail[kind]
	r.posted = append(r.posted, Posted{Kind: kind, Point: p, Failed: failed})
	if failed {
		return ErrEventCreation
	}
	return nil
}

func (r *Recorder) MouseDown(p geometry.Point) error    { return r.record(KindMouseDown, p) }
func (r *Recorder) MouseUp(p geometry.Point) error      { return r.record(KindMouseUp, p) }
func (r *Recorder) MouseDragged(p geometry.Point) error { return r.record(KindMouseDragged, p) }
func (r *Recorder) MouseMoved(p geometry.Point) error   { return r.record(KindMouseMoved, p) }

// Events returns a copy of everything posted so far.
func (r *Recorder) Events() []Posted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Posted(nil), r.posted...)
}

// Count returns how many events of kind were posted.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.posted {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent event of kind.
func (r *Recorder) Last(kind Kind) (Posted, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.posted) - 1; i >= 0; i-- {
		if r.posted[i].Kind == kind {
			return r.posted[i], true
		}
	}
	return Posted{}, false
}

// Balanced reports whether every mouse-down was closed by exactly one
// mouse-up and no two downs were ever outstanding at once.
func (r *Recorder) Balanced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	outstanding := 0
	for _, ev := range r.posted {
		switch ev.Kind {
		case KindMouseDown:
			outstanding++
			if outstanding > 1 {
				return false
			}
		case KindMouseUp:
			outstanding--
			if outstanding < 0 {
				return false
			}
		}
	}
	return outstanding == 0
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.posted = nil
	r.mu.Unlock()
}
