package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/offlinefirst/squirrel/internal/buildinfo"
)

func newVersionCommand() command {
	return command{
		name:        "version",
		description: "Print the version information",
		skipInit:    true,
		run: func(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
			if _, err := fmt.Fprintln(stdout, versionString()); err != nil {
				return err
			}
			if commit := buildinfo.Commit(); commit != "" {
				_, err := fmt.Fprintf(stdout, "commit %s\n", commit)
				return err
			}
			return nil
		},
	}
}
