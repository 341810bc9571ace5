// Package permissions reports coarse macOS privacy-permission state for the
// event tap and the synthetic event poster. Real prompts are handled by the
// host; probes here only honour environment overrides and platform defaults.
package permissions

import (
	"os"
	"runtime"
	"strings"
)

// Status enumerates coarse permission results for macOS-style prompts.
type Status string

const (
	// StatusUnknown indicates no explicit signal about permission state.
	StatusUnknown Status = "unknown"
	// StatusGranted signals that permission was previously granted.
	StatusGranted Status = "granted"
	// StatusDenied indicates the user has explicitly denied access.
	StatusDenied Status = "denied"
	// StatusPromptRequired means the platform will prompt at runtime.
	StatusPromptRequired Status = "prompt"
	// StatusUnavailable reports that the capability is not supported.
	StatusUnavailable Status = "unavailable"
)

// ProbeResult represents the coarse state for a permission surface.
type ProbeResult struct {
	Status   Status
	Message  string
	Guidance string
}

// LookupEnvFunc exposes environment probing for testability.
type LookupEnvFunc func(string) (string, bool)

var lookupEnv = func(key string) (string, bool) {
	return os.LookupEnv(key)
}

// ProbeAccessibility inspects environment flags for accessibility trust,
// which gates both the event tap and CGEventPost.
func ProbeAccessibility(lookup LookupEnvFunc) ProbeResult {
	return probe(lookup, "SQUIRREL_ACCESSIBILITY", "accessibility", "accessibility trust required")
}

// ProbeInputMonitoring reports whether the listen-only tap may observe
// keyboard events such as the cancel key.
func ProbeInputMonitoring(lookup LookupEnvFunc) ProbeResult {
	return probe(lookup, "SQUIRREL_INPUT_MONITORING", "input monitoring", "input monitoring approval required for the cancel key")
}

func probe(lookup LookupEnvFunc, envKey, name, darwinMessage string) ProbeResult {
	if lookup == nil {
		lookup = lookupEnv
	}
	if value, ok := lookup(envKey); ok {
		return interpretPermissionFlag(name, value)
	}
	if runtime.GOOS == "darwin" {
		return ProbeResult{Status: StatusPromptRequired, Message: darwinMessage}
	}
	return ProbeResult{Status: StatusUnavailable, Message: name + " prompts unavailable"}
}

func interpretPermissionFlag(name, value string) ProbeResult {
	normalised := strings.ToLower(strings.TrimSpace(value))
	switch normalised {
	case "granted", "allow", "allowed", "yes", "true":
		return ProbeResult{Status: StatusGranted, Message: name + " permission pre-authorised via env override"}
	case "denied", "no", "false", "blocked":
		return ProbeResult{Status: StatusDenied, Message: name + " permission denied via env override", Guidance: "grant access in System Settings > Privacy & Security or run 'tccutil reset " + tccService(name) + "'"}
	case "prompt", "ask":
		return ProbeResult{Status: StatusPromptRequired, Message: name + " permission will prompt at runtime"}
	case "unavailable", "unsupported":
		return ProbeResult{Status: StatusUnavailable, Message: name + " permission unavailable on this platform"}
	default:
		return ProbeResult{Status: StatusUnknown, Message: name + " permission state unknown"}
	}
}

func tccService(name string) string {
	if name == "input monitoring" {
		return "ListenEvent"
	}
	return "Accessibility"
}

// StatusString returns the string representation used in diagnostics.
func (p ProbeResult) StatusString() string {
	if p.Status == "" {
		return string(StatusUnknown)
	}
	return string(p.Status)
}
