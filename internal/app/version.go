package app

import "fmt"

// Build metadata set at link time via -ldflags. A plain source build reports
// the defaults.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// buildString condenses the link-time metadata for the startup log.
func buildString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
