package inject

import "errors"

// ErrInjectionUnavailable indicates the platform cannot post synthetic events.
var ErrInjectionUnavailable = errors.New("synthetic mouse injection unavailable on this platform")

// ErrEventCreation indicates the OS declined to construct a synthetic event.
var ErrEventCreation = errors.New("failed to create synthetic mouse event")

// ErrUnknownKind indicates an unsupported event kind was requested.
var ErrUnknownKind = errors.New("unknown synthetic event kind")
