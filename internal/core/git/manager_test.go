package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/internal/shell/shelltest"
)

// initTestRepo creates a git repository with one commit and returns its path.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	// Resolve symlinks so Root() comparisons work on macOS temp dirs.
	dir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	writeTestFile(t, filepath.Join(dir, "demo.php"), "<?php\n/**\n * Version: 1.0.0\n */\n")
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "draft\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRepository_Valid(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := NewRepository(context.Background(), shell.NewExecRunner(nil), dir)
	if err != nil {
		t.Fatalf("NewRepository(%q) error: %v", dir, err)
	}
	if got := repo.Root(); got != filepath.Clean(dir) {
		t.Errorf("Root() = %q, want %q", got, dir)
	}
}

func TestNewRepository_InvalidPath(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()

	repo, err := NewRepository(context.Background(), shell.NewExecRunner(nil), dir)
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("error = %v, want ErrNotRepository", err)
	}
	if repo != nil {
		t.Error("expected nil repo on error")
	}
}

func TestNewRepository_GitMissing(t *testing.T) {
	rec := shelltest.NewRecorder().Missing("git")

	_, err := NewRepository(context.Background(), rec, t.TempDir())
	if !errors.Is(err, ErrSystemGitNotFound) {
		t.Errorf("error = %v, want ErrSystemGitNotFound", err)
	}
}

func TestCommitFiles_CommitsOnlyGivenPaths(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := NewRepository(context.Background(), shell.NewExecRunner(nil), dir)
	if err != nil {
		t.Fatal(err)
	}

	writeTestFile(t, filepath.Join(dir, "demo.php"), "<?php\n/**\n * Version: 1.0.1\n */\n")
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "edited but not part of the bump\n")

	if err := repo.CommitFiles(context.Background(), "version bump to 1.0.1", filepath.Join(dir, "demo.php")); err != nil {
		t.Fatalf("CommitFiles error: %v", err)
	}

	if got := runGit(t, dir, "log", "-1", "--format=%s"); got != "version bump to 1.0.1" {
		t.Errorf("last commit subject = %q", got)
	}
	status := runGit(t, dir, "status", "--porcelain")
	if !strings.Contains(status, "notes.txt") {
		t.Errorf("notes.txt should remain modified, status = %q", status)
	}
	if strings.Contains(status, "demo.php") {
		t.Errorf("demo.php should be committed, status = %q", status)
	}
}

func TestCommitFiles_NothingToCommit(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := NewRepository(context.Background(), shell.NewExecRunner(nil), dir)
	if err != nil {
		t.Fatal(err)
	}

	err = repo.CommitFiles(context.Background(), "version bump to 1.0.0", "demo.php")
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("error = %v, want ErrNothingToCommit", err)
	}
}

func TestCommitFiles_StageFailure(t *testing.T) {
	rec := shelltest.NewRecorder().Handle("git", func(call shelltest.Call) (*shell.Result, error) {
		switch call.Args[0] {
		case "rev-parse":
			return &shell.Result{Stdout: "/repo\n"}, nil
		case "add":
			return &shell.Result{ExitCode: 128}, shell.ErrCommandFailed
		}
		return &shell.Result{}, nil
	})

	repo, err := NewRepository(context.Background(), rec, "/repo")
	if err != nil {
		t.Fatal(err)
	}

	err = repo.CommitFiles(context.Background(), "version bump to 2.0.0", "/repo/package.json")
	if !errors.Is(err, ErrVCS) {
		t.Fatalf("error = %v, want ErrVCS", err)
	}
	if got := len(rec.CallsTo("git")); got != 2 {
		t.Errorf("git calls = %d, want 2 (rev-parse, add)", got)
	}
}

func TestCommitFiles_ArgumentShape(t *testing.T) {
	rec := shelltest.NewRecorder().Handle("git", func(call shelltest.Call) (*shell.Result, error) {
		switch call.Args[0] {
		case "rev-parse":
			return &shell.Result{Stdout: "/repo\n"}, nil
		case "diff":
			return &shell.Result{Stdout: "package.json\n"}, nil
		}
		return &shell.Result{}, nil
	})

	repo, err := NewRepository(context.Background(), rec, "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CommitFiles(context.Background(), "version bump to 2.0.0", "/repo/package.json", "demo.php"); err != nil {
		t.Fatalf("CommitFiles error: %v", err)
	}

	calls := rec.CallsTo("git")
	last := calls[len(calls)-1].String()
	want := "git commit -m version bump to 2.0.0 -- package.json demo.php"
	if last != want {
		t.Errorf("commit call = %q, want %q", last, want)
	}
}

func TestCommitFiles_OutsideRepository(t *testing.T) {
	rec := shelltest.NewRecorder().Handle("git", func(call shelltest.Call) (*shell.Result, error) {
		return &shell.Result{Stdout: "/repo\n"}, nil
	})
	repo, err := NewRepository(context.Background(), rec, "/repo")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.CommitFiles(context.Background(), "msg", "/elsewhere/file"); !errors.Is(err, ErrVCS) {
		t.Errorf("error = %v, want ErrVCS", err)
	}
}

func TestCommitFiles_DotDotFileName(t *testing.T) {
	rec := shelltest.NewRecorder().Handle("git", func(call shelltest.Call) (*shell.Result, error) {
		switch call.Args[0] {
		case "rev-parse":
			return &shell.Result{Stdout: "/repo\n"}, nil
		case "diff":
			return &shell.Result{Stdout: "..hidden.php\n"}, nil
		}
		return &shell.Result{}, nil
	})
	repo, err := NewRepository(context.Background(), rec, "/repo")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.CommitFiles(context.Background(), "msg", "/repo/..hidden.php"); err != nil {
		t.Fatalf("CommitFiles error: %v", err)
	}
	calls := rec.CallsTo("git")
	if got := calls[len(calls)-1].String(); got != "git commit -m msg -- ..hidden.php" {
		t.Errorf("commit call = %q", got)
	}
}

func TestCommitFiles_SymlinkedProjectPath(t *testing.T) {
	target, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, filepath.Join(target, "demo.php"), "<?php")
	link := filepath.Join(t.TempDir(), "project")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rec := shelltest.NewRecorder().Handle("git", func(call shelltest.Call) (*shell.Result, error) {
		switch call.Args[0] {
		case "rev-parse":
			return &shell.Result{Stdout: target + "\n"}, nil
		case "diff":
			return &shell.Result{Stdout: "demo.php\n"}, nil
		}
		return &shell.Result{}, nil
	})
	repo, err := NewRepository(context.Background(), rec, link)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.CommitFiles(context.Background(), "msg", filepath.Join(link, "demo.php")); err != nil {
		t.Fatalf("CommitFiles error: %v", err)
	}
	calls := rec.CallsTo("git")
	if got := calls[len(calls)-1].String(); got != "git commit -m msg -- demo.php" {
		t.Errorf("commit call = %q", got)
	}
}
