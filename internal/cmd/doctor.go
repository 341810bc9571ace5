package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/inject"
	"github.com/offlinefirst/squirrel/pkg/permissions"
)

func newDoctorCommand() command {
	return command{
		name:        "doctor",
		description: "Report event tap, injection and permission status",
		run:         runDoctor,
	}
}

func runDoctor(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	fmt.Fprintf(stdout, "Version: %s\n", versionString())
	if ctx != nil {
		fmt.Fprintf(stdout, "Config: %s (%d targets, %d screens, enabled=%t)\n",
			ctx.Config.Source, len(ctx.Config.Targets), len(ctx.Config.Screens), ctx.Config.Enabled)
	}

	tap := events.DetectEnvironment()
	fmt.Fprintf(stdout, "Event tap: provider=%s available=%t permission=%s\n", tap.Provider, tap.Available, tap.Permission)
	printNotes(stdout, tap.Message, tap.Guidance)

	poster := inject.DetectEnvironment()
	fmt.Fprintf(stdout, "Injector: provider=%s available=%t permission=%s\n", poster.Provider, poster.Available, poster.Permission)
	printNotes(stdout, poster.Message, poster.Guidance)

	for _, probe := range []struct {
		name   string
		result permissions.ProbeResult
	}{
		{"Accessibility", permissions.ProbeAccessibility(nil)},
		{"Input monitoring", permissions.ProbeInputMonitoring(nil)},
	} {
		fmt.Fprintf(stdout, "%s: %s\n", probe.name, probe.result.StatusString())
		printNotes(stdout, probe.result.Message, probe.result.Guidance)
	}

	if ctx != nil && ctx.Logger != nil {
		ctx.Logger.Info("doctor completed", "tap_available", tap.Available, "injector_available", poster.Available)
	}
	return nil
}

func printNotes(w io.Writer, message, guidance string) {
	if message != "" {
		fmt.Fprintf(w, "  note: %s\n", message)
	}
	if guidance != "" {
		fmt.Fprintf(w, "  fix: %s\n", guidance)
	}
}
