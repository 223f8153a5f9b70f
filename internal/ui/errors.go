// Package ui holds the interactive surface of wprelease: prompts, the step
// spinner and TTY detection. Every component has a headless fallback.
package ui

import "errors"

// ErrCancelled indicates the operator aborted a prompt (Ctrl+C or Esc).
var ErrCancelled = errors.New("ui: cancelled by user")
