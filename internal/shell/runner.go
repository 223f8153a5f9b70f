package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// maxStderrTail bounds how much stderr is copied into an error message.
const maxStderrTail = 2048

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a single external process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)
}

// Compile-time interface compliance check.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	env    []string
	logger *slog.Logger
}

// NewExecRunner creates an ExecRunner. extraEnv entries ("KEY=value") are
// appended to the current environment of every process.
func NewExecRunner(logger *slog.Logger, extraEnv ...string) *ExecRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecRunner{
		env:    append(os.Environ(), extraEnv...),
		logger: logger.With("module", "shell"),
	}
}

// @MX:ANCHOR: [AUTO] Run is the single process executor behind git, rsync, composer and package manager calls
// @MX:REASON: [AUTO] fan_in=3, called from core/git, archive and release
// Run starts name with args in dir and waits for it to finish.
// A non-zero exit status returns the captured Result together with an
// error wrapping ErrCommandFailed.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Env = append(r.env[:len(r.env):len(r.env)], EnvFromContext(ctx)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "name", name, "args", args, "dir", dir)

	runErr := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("%s exited with status %d: %s: %w",
				name, res.ExitCode, tail(res.Stderr), ErrCommandFailed)
		}
		return res, fmt.Errorf("%s: %v: %w", name, runErr, ErrCommandFailed)
	}

	r.logger.Debug("command finished", "name", name, "exit_code", res.ExitCode)
	return res, nil
}

type envKey struct{}

// WithEnv returns a context whose Run calls add env ("KEY=value") to the
// process environment. Later entries win.
func WithEnv(ctx context.Context, env []string) context.Context {
	if len(env) == 0 {
		return ctx
	}
	return context.WithValue(ctx, envKey{}, append(EnvFromContext(ctx), env...))
}

// EnvFromContext returns the entries added with WithEnv.
func EnvFromContext(ctx context.Context) []string {
	env, _ := ctx.Value(envKey{}).([]string)
	return env
}

// @MX:ANCHOR: [AUTO] RunLine runs the operator's build command line
// @MX:REASON: [AUTO] fan_in=2, called from release build step and shell tests
// RunLine interprets line as a POSIX shell program in dir. Lists, pipes,
// variable prefixes and builtins run in-process; every external command
// goes through r. The Result collects the output of the whole line. A
// non-zero final status returns an error wrapping ErrCommandFailed.
func RunLine(ctx context.Context, r Runner, dir, line string) (*Result, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(prog.Stmts) == 0 {
		return nil, ErrEmptyCommand
	}

	var stdout, stderr bytes.Buffer
	sh, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
		interp.ExecHandlers(func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
			return runnerHandler(r)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}

	runErr := sh.Run(ctx, prog)
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if runErr == nil {
		return res, nil
	}
	if status, ok := interp.IsExitStatus(runErr); ok {
		res.ExitCode = int(status)
		return res, fmt.Errorf("%q exited with status %d: %s: %w",
			line, res.ExitCode, tail(res.Stderr), ErrCommandFailed)
	}
	return res, fmt.Errorf("%q: %v: %w", line, runErr, ErrCommandFailed)
}

// runnerHandler hands each external command of a shell line to r, with
// the variables the line exported or prefixed.
func runnerHandler(r Runner) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		ctx = WithEnv(ctx, changedEnv(hc.Env))

		res, err := r.Run(ctx, hc.Dir, args[0], args[1:]...)
		if res != nil {
			_, _ = io.WriteString(hc.Stdout, res.Stdout)
			_, _ = io.WriteString(hc.Stderr, res.Stderr)
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrCommandNotFound):
			_, _ = fmt.Fprintf(hc.Stderr, "%v\n", err)
			return interp.NewExitStatus(127)
		case res != nil && res.ExitCode > 0:
			return interp.NewExitStatus(uint8(min(res.ExitCode, 255)))
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			_, _ = fmt.Fprintf(hc.Stderr, "%v\n", err)
			return interp.NewExitStatus(1)
		}
	}
}

// changedEnv lists the exported variables whose value differs from the
// process environment.
func changedEnv(env expand.Environ) []string {
	var out []string
	env.Each(func(name string, vr expand.Variable) bool {
		if !vr.Exported || vr.Kind != expand.String {
			return true
		}
		if cur, ok := os.LookupEnv(name); !ok || cur != vr.Str {
			out = append(out, name+"="+vr.Str)
		}
		return true
	})
	return out
}

// tail returns the trimmed end of s, bounded by maxStderrTail.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrTail {
		s = "..." + s[len(s)-maxStderrTail:]
	}
	return s
}
