// Package version provides build metadata for the socratic binary.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns only the version number.
func Short() string {
	return Version
}

// Info returns detailed version information.
func Info() string {
	return fmt.Sprintf("socratic %s (commit: %s, built: %s, %s)",
		Version, Commit, BuildTime, runtime.Version())
}
