// Package events delivers the raw scroll and key input that drives the
// scroll engine, using either the macOS Quartz event tap (with
// Accessibility approval) or a deterministic synthetic source for
// non-darwin platforms and automated tests.
package events
