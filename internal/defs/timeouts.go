package defs

import "time"

// Timeouts for blocking external operations.
const (
	DefaultGitTimeout     = 30 * time.Second
	DefaultCommandTimeout = 15 * time.Minute
	DefaultFTPDialTimeout = 30 * time.Second
)
