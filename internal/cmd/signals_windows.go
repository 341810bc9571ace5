//go:build windows

package cmd

import "os"

var toggleSignals []os.Signal
