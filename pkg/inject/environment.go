package inject

import (
	"runtime"

	"github.com/offlinefirst/squirrel/pkg/permissions"
)

// Environment summarises synthetic event posting support.
type Environment struct {
	Provider   string
	Available  bool
	Permission string
	Message    string
	Guidance   string
}

// DetectEnvironment reports whether synthetic events can be posted.
func DetectEnvironment() Environment {
	accessibility := permissions.ProbeAccessibility(nil)
	env := Environment{
		Provider:   provider,
		Permission: accessibility.StatusString(),
		Message:    accessibility.Message,
		Guidance:   accessibility.Guidance,
		Available:  provider != "unavailable",
	}

	if runtime.GOOS != "darwin" {
		env.Permission = "not_applicable"
		env.Message = "synthetic injection requires macOS; events will be dropped"
		return env
	}
	if !env.Available {
		env.Message = "built without cgo; CoreGraphics posting disabled"
		return env
	}
	if accessibility.Status == permissions.StatusDenied {
		env.Available = false
		if env.Message == "" {
			env.Message = "accessibility permission missing"
		}
	}
	return env
}
