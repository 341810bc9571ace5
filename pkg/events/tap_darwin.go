//go:build darwin

package events

/*
#cgo darwin CFLAGS: -x objective-c -fmodules -fobjc-arc
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

static Boolean axCheckTrusted(void) {
        const void *keys[] = { kAXTrustedCheckOptionPrompt };
        const void *values[] = { kCFBooleanTrue };
        CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
                                                     &kCFTypeDictionaryKeyCallBacks,
                                                     &kCFTypeDictionaryValueCallBacks);
        Boolean trusted = AXIsProcessTrustedWithOptions(options);
        CFRelease(options);
        return trusted;
}

extern CGEventRef goHandleEvent(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFRunLoopSourceRef startEventTap(uintptr_t handle, CGEventMask mask, CFMachPortRef *tapOut) {
        CFMachPortRef tap = CGEventTapCreate(kCGSessionEventTap,
                                             kCGHeadInsertEventTap,
                                             kCGEventTapOptionListenOnly,
                                             mask,
                                             goHandleEvent,
                                             (void *)handle);
        if (tap == NULL) {
                return NULL;
        }
        CGEventTapEnable(tap, true);
        CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
        *tapOut = tap;
        return source;
}

static void reenableTap(CFMachPortRef tap) {
        if (tap != NULL) {
                CGEventTapEnable(tap, true);
        }
}

static CFRunLoopRef currentRunLoop(void) {
        return CFRunLoopGetCurrent();
}

static CGEventMask cgEventMaskBit(CGEventType type) {
        return ((CGEventMask)1) << type;
}

static void addSourceToRunLoop(CFRunLoopRef loop, CFRunLoopSourceRef source) {
        CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
}

static void runCurrentRunLoop(void) {
        CFRunLoopRun();
}

static void stopRunLoop(CFRunLoopRef loop) {
        CFRunLoopStop(loop);
}

static double cgEventGetX(CGEventRef event) {
        CGPoint point = CGEventGetLocation(event);
        return point.x;
}

static double cgEventGetY(CGEventRef event) {
        CGPoint point = CGEventGetLocation(event);
        return point.y;
}

static int64_t cgEventGetKeycode(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
}

static int64_t cgScrollIsContinuous(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGScrollWheelEventIsContinuous);
}

static int64_t cgScrollMomentumPhase(CGEventRef event) {
        return CGEventGetIntegerValueField(event, kCGScrollWheelEventMomentumPhase);
}

static double cgScrollPointDeltaY(CGEventRef event) {
        return CGEventGetDoubleValueField(event, kCGScrollWheelEventPointDeltaAxis1);
}

static double cgScrollFixedDeltaY(CGEventRef event) {
        return CGEventGetDoubleValueField(event, kCGScrollWheelEventFixedPtDeltaAxis1);
}
*/
import "C"

import (
	"context"
	"runtime"
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/offlinefirst/squirrel/pkg/geometry"
)

type macEventSource struct {
	now func() time.Time
}

func defaultEventSource(opts Options, clock func() time.Time) EventSource {
	return &macEventSource{now: clock}
}

type macEventStream struct {
	emit      func(Input) error
	now       func() time.Time
	tap       C.CFMachPortRef
	stopped   chan struct{}
	stopLoop  func()
	err       error
	closeOnce sync.Once
}

func newMacEventStream(now func() time.Time, emit func(Input) error) *macEventStream {
	return &macEventStream{
		emit:    emit,
		now:     now,
		stopped: make(chan struct{}),
	}
}

func (s *macEventStream) close() {
	s.closeOnce.Do(func() {
		close(s.stopped)
	})
}

func (s *macEventStream) emitInput(in Input) {
	if s.err != nil {
		return
	}
	if err := s.emit(in); err != nil {
		s.err = err
		if s.stopLoop != nil {
			s.stopLoop()
		}
	}
}

func (s *macEventStream) handleScroll(now time.Time, event C.CGEventRef) {
	continuous := C.cgScrollIsContinuous(event) != 0
	var dy float64
	if continuous {
		dy = float64(C.cgScrollPointDeltaY(event))
	} else {
		dy = float64(C.cgScrollFixedDeltaY(event))
	}
	s.emitInput(Scroll(ScrollEvent{
		Point: geometry.Point{
			X: float64(C.cgEventGetX(event)),
			Y: float64(C.cgEventGetY(event)),
		},
		DeltaY:     dy,
		Phase:      momentumPhase(int64(C.cgScrollMomentumPhase(event))),
		Continuous: continuous,
		Timestamp:  now,
	}))
}

func (s *macEventStream) handleKey(now time.Time, event C.CGEventRef) {
	s.emitInput(Key(KeyEvent{
		Keycode:   int(C.cgEventGetKeycode(event)),
		Timestamp: now,
	}))
}

// momentumPhase maps kCGScrollWheelEventMomentumPhase values.
func momentumPhase(raw int64) Phase {
	switch raw {
	case 1:
		return PhaseBegan
	case 2:
		return PhaseChanged
	case 3:
		return PhaseEnded
	default:
		return PhaseNone
	}
}

func (s *macEventSource) Stream(ctx context.Context, emit func(Input) error) error {
	if C.axCheckTrusted() == C.Boolean(0) {
		return ErrAccessibilityPermission
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	stream := newMacEventStream(s.now, emit)
	handle := cgo.NewHandle(stream)
	defer handle.Delete()

	mask := C.cgEventMaskBit(C.kCGEventScrollWheel) |
		C.cgEventMaskBit(C.kCGEventKeyDown)

	var tap C.CFMachPortRef
	source := C.startEventTap(C.uintptr_t(handle), mask, &tap)
	if source == 0 {
		return ErrTapCreation
	}
	defer C.CFRelease(C.CFTypeRef(source))
	defer C.CFRelease(C.CFTypeRef(tap))
	stream.tap = tap

	loop := C.currentRunLoop()
	stopOnce := sync.Once{}
	stream.stopLoop = func() {
		stopOnce.Do(func() {
			C.stopRunLoop(loop)
		})
	}
	C.addSourceToRunLoop(loop, source)

	cancelWatcher := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stream.stopLoop()
		case <-stream.stopped:
		}
		close(cancelWatcher)
	}()

	C.runCurrentRunLoop()
	stream.stopLoop()
	stream.close()
	<-cancelWatcher
	if stream.err != nil {
		return stream.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

//export goHandleEvent
func goHandleEvent(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	handle := cgo.Handle(uintptr(userInfo))
	stream, ok := handle.Value().(*macEventStream)
	if !ok {
		return event
	}

	now := stream.now().UTC()
	switch eventType {
	case C.kCGEventScrollWheel:
		stream.handleScroll(now, event)
	case C.kCGEventKeyDown:
		stream.handleKey(now, event)
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		C.reenableTap(stream.tap)
	default:
		// ignore other events
	}

	return event
}
