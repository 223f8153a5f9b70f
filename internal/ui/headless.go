package ui

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether the operator may be asked anything.
// Interaction needs a terminal on stdin outside of CI; ForceHeadless
// overrides both checks.
type HeadlessManager struct {
	forced *bool
	stdin  *os.File
	getenv func(string) string
}

// NewHeadlessManager checks os.Stdin and the CI environment variable.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{stdin: os.Stdin, getenv: os.Getenv}
}

// IsHeadless reports whether prompts and animations must be skipped.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if runningInCI(h.getenv) {
		return true
	}
	return h.stdin == nil || !IsTerminal(h.stdin)
}

// ForceHeadless overrides detection. --yes forces headless mode.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runningInCI treats any CI value other than a false boolean as set.
func runningInCI(getenv func(string) string) bool {
	if getenv == nil {
		return false
	}
	v := getenv("CI")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}
