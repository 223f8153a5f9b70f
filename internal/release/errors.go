// Package release runs the release steps of a plugin in order: version
// bump and commit, dependency install, build, archive and upload. Each
// step yields an Outcome; only a missing version or a failed archive stop
// the run.
package release

import "errors"

// Sentinel errors for release steps.
var (
	// ErrDependencyInstall indicates a package manager install failed. Reported as a warning.
	ErrDependencyInstall = errors.New("release: dependency install failed")

	// ErrBuild indicates the build command failed. Reported as a warning.
	ErrBuild = errors.New("release: build failed")
)
