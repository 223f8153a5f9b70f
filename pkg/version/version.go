package version

import (
	"fmt"
	"strings"
)

// Build-time variables injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns a formatted full version string.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// IsDevBuild reports whether the binary was built without release ldflags.
func IsDevBuild() bool {
	return Version == "dev" || Commit == "none" || strings.Contains(Version, "dirty")
}
