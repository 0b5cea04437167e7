// Package version centralizes build identification.
package version

// Version is the current semantic version.
const Version = "0.1.0"

// BuildDate and GitCommit are set at build time via -ldflags.
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns the short version string.
func Info() string {
	return Version
}

// FullInfo returns detailed version information.
func FullInfo() string {
	return "lexiguess " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
