package shell_test

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"testing"

	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/internal/shell/shelltest"
)

func TestRunLine_SplitsArguments(t *testing.T) {
	rec := shelltest.NewRecorder()
	dir := t.TempDir()

	if _, err := shell.RunLine(context.Background(), rec, dir, "npm run build -- --prod"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].Name != "npm" || calls[0].Dir != dir {
		t.Errorf("call = %+v", calls[0])
	}
	if !slices.Equal(calls[0].Args, []string{"run", "build", "--", "--prod"}) {
		t.Errorf("args = %q", calls[0].Args)
	}
}

func TestRunLine_Lists(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"and", "npm run build && npm run zip", []string{"npm run build", "npm run zip"}},
		{"sequence", "npm run build; composer dump-autoload", []string{"npm run build", "composer dump-autoload"}},
		{"quoted", `yarn run "build:prod" --mode 'release candidate'`, []string{"yarn run build:prod --mode release candidate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := shelltest.NewRecorder()
			if _, err := shell.RunLine(context.Background(), rec, t.TempDir(), tt.line); err != nil {
				t.Fatalf("RunLine(%q) error: %v", tt.line, err)
			}
			var got []string
			for _, c := range rec.Calls() {
				got = append(got, c.String())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("calls = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunLine_AndStopsAfterFailure(t *testing.T) {
	rec := shelltest.NewRecorder().Fail("npm")

	res, err := shell.RunLine(context.Background(), rec, t.TempDir(), "npm run build && npm run zip")
	if !errors.Is(err, shell.ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
	if res == nil || res.ExitCode != 1 {
		t.Errorf("result = %+v, want exit code 1", res)
	}
	if got := len(rec.CallsTo("npm")); got != 1 {
		t.Errorf("npm calls = %d, want 1", got)
	}
}

func TestRunLine_EnvPrefix(t *testing.T) {
	rec := shelltest.NewRecorder()

	if _, err := shell.RunLine(context.Background(), rec, t.TempDir(), "WPRELEASE_TEST_MODE=production npm run build"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Name != "npm" {
		t.Fatalf("calls = %+v, want a single npm call", calls)
	}
	if !slices.Contains(calls[0].Env, "WPRELEASE_TEST_MODE=production") {
		t.Errorf("env = %q, want WPRELEASE_TEST_MODE=production", calls[0].Env)
	}
}

func TestRunLine_MissingCommand(t *testing.T) {
	rec := shelltest.NewRecorder().Missing("gulp")

	res, err := shell.RunLine(context.Background(), rec, t.TempDir(), "gulp build")
	if !errors.Is(err, shell.ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
	if res.ExitCode != 127 {
		t.Errorf("ExitCode = %d, want 127", res.ExitCode)
	}
}

func TestRunLine_Empty(t *testing.T) {
	_, err := shell.RunLine(context.Background(), shelltest.NewRecorder(), t.TempDir(), "   ")
	if !errors.Is(err, shell.ErrEmptyCommand) {
		t.Errorf("error = %v, want ErrEmptyCommand", err)
	}
}

func TestRunLine_Unterminated(t *testing.T) {
	if _, err := shell.RunLine(context.Background(), shelltest.NewRecorder(), t.TempDir(), `npm run "build`); err == nil {
		t.Error("expected parse error for unterminated quote")
	}
}

func TestExecRunner_ContextEnv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := shell.NewExecRunner(nil)
	ctx := shell.WithEnv(context.Background(), []string{"WPRELEASE_TEST_MODE=production"})

	res, err := r.Run(ctx, t.TempDir(), "sh", "-c", "echo $WPRELEASE_TEST_MODE")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Stdout != "production\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "production\n")
	}
}

func TestExecRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := shell.NewExecRunner(nil)

	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestExecRunner_Failure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := shell.NewExecRunner(nil)

	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo boom >&2; exit 3")
	if !errors.Is(err, shell.ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
	if res == nil || res.ExitCode != 3 {
		t.Fatalf("result = %+v, want exit code 3", res)
	}
	if res.Stderr != "boom\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestExecRunner_NotFound(t *testing.T) {
	r := shell.NewExecRunner(nil)

	_, err := r.Run(context.Background(), t.TempDir(), "wprelease-no-such-binary")
	if !errors.Is(err, shell.ErrCommandNotFound) {
		t.Errorf("error = %v, want ErrCommandNotFound", err)
	}
}

func TestRecorder_FailAndMissing(t *testing.T) {
	rec := shelltest.NewRecorder().Fail("rsync").Missing("composer")
	ctx := context.Background()

	if _, err := rec.Run(ctx, "", "rsync", "-a"); !errors.Is(err, shell.ErrCommandFailed) {
		t.Errorf("rsync error = %v", err)
	}
	if _, err := rec.Run(ctx, "", "composer"); !errors.Is(err, shell.ErrCommandNotFound) {
		t.Errorf("composer error = %v", err)
	}
	if got := len(rec.CallsTo("rsync")); got != 1 {
		t.Errorf("rsync calls = %d, want 1", got)
	}
}
