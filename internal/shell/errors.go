// Package shell runs external processes for wprelease. Every tool the
// release flow shells out to (git, package managers, rsync, composer) goes
// through the Runner interface so it can be replaced with a fake in tests.
package shell

import "errors"

// Sentinel errors for process execution.
var (
	// ErrCommandNotFound indicates the executable is not on PATH.
	ErrCommandNotFound = errors.New("shell: command not found")

	// ErrCommandFailed indicates the process exited unsuccessfully.
	ErrCommandFailed = errors.New("shell: command failed")

	// ErrEmptyCommand indicates a command line with no words.
	ErrEmptyCommand = errors.New("shell: empty command line")
)
