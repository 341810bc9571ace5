package inject

import (
	"log/slog"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

type loggingInjector struct {
	next   Injector
	logger *slog.Logger
}

// WithLogging wraps inj so every post is logged at debug level.
func WithLogging(inj Injector, logger *slog.Logger) Injector {
	if logger == nil {
		return inj
	}
	return &loggingInjector{next: inj, logger: logger}
}

func (l *loggingInjector) post(kind Kind, p geometry.Point) error {
	err := Post(l.next, kind, p)
	if err != nil {
		l.logger.Debug("synthetic event not posted", "kind", kind.String(), "x", p.X, "y", p.Y, "error", err)
		return err
	}
	l.logger.Debug("synthetic event posted", "kind", kind.String(), "x", p.X, "y", p.Y)
	return nil
}

func (l *loggingInjector) MouseDown(p geometry.Point) error    { return l.post(KindMouseDown, p) }
func (l *loggingInjector) MouseUp(p geometry.Point) error      { return l.post(KindMouseUp, p) }
func (l *loggingInjector) MouseDragged(p geometry.Point) error { return l.post(KindMouseDragged, p) }
func (l *loggingInjector) MouseMoved(p geometry.Point) error   { return l.post(KindMouseMoved, p) }
