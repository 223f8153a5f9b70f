// Package shelltest provides a scripted shell.Runner for tests.
package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wpforge/wprelease/internal/shell"
)

// Call records one invocation of Recorder.Run.
type Call struct {
	Dir  string
	Name string
	Args []string
	// Env holds the entries added with shell.WithEnv.
	Env []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Handler produces the outcome of a recorded call.
type Handler func(call Call) (*shell.Result, error)

// Recorder is a shell.Runner that records calls and answers them from
// per-command handlers. Commands without a handler succeed with empty output.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
}

// Compile-time interface compliance check.
var _ shell.Runner = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{handlers: make(map[string]Handler)}
}

// Handle registers h for every call whose executable is name.
func (r *Recorder) Handle(name string, h Handler) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return r
}

// Fail makes every call to name fail with shell.ErrCommandFailed.
func (r *Recorder) Fail(name string) *Recorder {
	return r.Handle(name, func(call Call) (*shell.Result, error) {
		return &shell.Result{ExitCode: 1}, fmt.Errorf("%s: %w", call, shell.ErrCommandFailed)
	})
}

// Missing makes every call to name fail with shell.ErrCommandNotFound.
func (r *Recorder) Missing(name string) *Recorder {
	return r.Handle(name, func(Call) (*shell.Result, error) {
		return nil, fmt.Errorf("%s: %w", name, shell.ErrCommandNotFound)
	})
}

// Run implements shell.Runner.
func (r *Recorder) Run(ctx context.Context, dir, name string, args ...string) (*shell.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	call := Call{
		Dir:  dir,
		Name: name,
		Args: append([]string(nil), args...),
		Env:  shell.EnvFromContext(ctx),
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	h := r.handlers[name]
	r.mu.Unlock()

	if h == nil {
		return &shell.Result{}, nil
	}
	return h(call)
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsTo returns the recorded calls whose executable is name.
func (r *Recorder) CallsTo(name string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
