//go:build darwin && cgo

package inject

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static int postMouseEvent(CGEventType type, double x, double y) {
        CGEventRef event = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), kCGMouseButtonLeft);
        if (event == NULL) {
                return 0;
        }
        CGEventPost(kCGHIDEventTap, event);
        CFRelease(event);
        return 1;
}
*/
import "C"

import "github.com/offlinefirst/squirrel/pkg/geometry"

const provider = "core_graphics"

type quartzInjector struct{}

// New returns the CoreGraphics poster.
func New() Injector {
	return quartzInjector{}
}

func post(eventType C.CGEventType, p geometry.Point) error {
	if C.postMouseEvent(eventType, C.double(p.X), C.double(p.Y)) == 0 {
		return ErrEventCreation
	}
	return nil
}

func (quartzInjector) MouseDown(p geometry.Point) error {
	return post(C.kCGEventLeftMouseDown, p)
}

func (quartzInjector) MouseUp(p geometry.Point) error {
	return post(C.kCGEventLeftMouseUp, p)
}

func (quartzInjector) MouseDragged(p geometry.Point) error {
	return post(C.kCGEventLeftMouseDragged, p)
}

func (quartzInjector) MouseMoved(p geometry.Point) error {
	return post(C.kCGEventMouseMoved, p)
}
