// Package git wraps the system git binary for the few version-control
// operations a release needs: locating the repository root and committing
// the files touched by a version bump.
package git

import "errors"

// Sentinel errors for git operations.
var (
	// ErrNotRepository indicates the path is not inside a git work tree.
	ErrNotRepository = errors.New("git: not a git repository")

	// ErrSystemGitNotFound indicates no git executable is on PATH.
	ErrSystemGitNotFound = errors.New("git: system git not found")

	// ErrVCS indicates a staging or commit operation failed.
	ErrVCS = errors.New("git: version control operation failed")

	// ErrNothingToCommit indicates the paths had no changes to record.
	ErrNothingToCommit = errors.New("git: nothing to commit")
)
