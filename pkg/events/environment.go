package events

import (
	"runtime"

	"github.com/offlinefirst/squirrel/pkg/permissions"
)

// Environment summarises event tap backend support.
type Environment struct {
	Provider   string
	Available  bool
	Permission string
	Message    string
	Guidance   string
}

const (
	providerQuartz = "quartz_event_tap"
	providerStub   = "synthetic"
)

// DetectEnvironment reports the availability of a real Quartz event tap.
func DetectEnvironment() Environment {
	accessibility := permissions.ProbeAccessibility(nil)
	env := Environment{
		Provider:   providerStub,
		Permission: accessibility.StatusString(),
		Message:    accessibility.Message,
		Guidance:   accessibility.Guidance,
		Available:  true,
	}

	if runtime.GOOS == "darwin" {
		env.Provider = providerQuartz
		env.Available = accessibility.Status != permissions.StatusDenied
		if !env.Available && env.Message == "" {
			env.Message = "accessibility permission missing"
		}
		if monitoring := permissions.ProbeInputMonitoring(nil); monitoring.Status == permissions.StatusDenied {
			env.Message = monitoring.Message + "; scroll events still flow but the cancel key is not observed"
			env.Guidance = monitoring.Guidance
		}
	} else {
		env.Permission = "not_applicable"
		if env.Message == "" {
			env.Message = "synthetic scroll timeline"
		}
	}

	if !env.Available {
		env.Provider = providerStub
	}
	return env
}
