//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// toggleSignals flip the enable switch of a running translator.
var toggleSignals = []os.Signal{syscall.SIGUSR1}
