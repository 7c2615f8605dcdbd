//go:build unix

package app

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals cancel the running task.
var shutdownSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
