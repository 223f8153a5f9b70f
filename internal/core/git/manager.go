package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/internal/shell"
)

// Repository is the version-control surface used by the release flow.
type Repository interface {
	// Root returns the absolute path to the repository root directory.
	Root() string

	// CommitFiles stages exactly paths and records them in a single commit.
	CommitFiles(ctx context.Context, message string, paths ...string) error
}

// Compile-time interface compliance check.
var _ Repository = (*gitManager)(nil)

// gitManager implements the Repository interface using the system git binary.
type gitManager struct {
	root   string
	runner shell.Runner
	logger *slog.Logger
}

// @MX:ANCHOR: [AUTO] NewRepository is the entry point for every git operation of a release
// @MX:REASON: [AUTO] fan_in=2, called from the release pipeline and git tests
// NewRepository opens the git repository containing path.
// Returns ErrNotRepository if the path is not inside a git work tree.
func NewRepository(ctx context.Context, runner shell.Runner, path string) (*gitManager, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defs.DefaultGitTimeout)
	defer cancel()

	root, err := execGit(ctx, runner, absPath, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrSystemGitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("open repository at %s: %w", absPath, ErrNotRepository)
	}

	cleanRoot := filepath.Clean(root)
	logger := slog.Default().With("module", "git")
	logger.Debug("repository opened", "root", cleanRoot)

	return &gitManager{
		root:   cleanRoot,
		runner: runner,
		logger: logger,
	}, nil
}

// Root returns the absolute path to the repository root directory.
func (m *gitManager) Root() string {
	return m.root
}

// CommitFiles stages paths and commits only those paths with message.
// Paths may be absolute or relative to the repository root.
// Returns ErrNothingToCommit when none of the paths changed.
func (m *gitManager) CommitFiles(ctx context.Context, message string, paths ...string) error {
	if len(paths) == 0 {
		return ErrNothingToCommit
	}

	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := m.relative(p)
		if err != nil {
			return err
		}
		rel = append(rel, r)
	}

	m.logger.Debug("committing files", "files", rel, "message", message)

	ctx, cancel := context.WithTimeout(ctx, defs.DefaultGitTimeout)
	defer cancel()

	addArgs := append([]string{"add", "--"}, rel...)
	if _, err := execGit(ctx, m.runner, m.root, addArgs...); err != nil {
		return fmt.Errorf("stage files: %w", errors.Join(ErrVCS, err))
	}

	staged, err := execGit(ctx, m.runner, m.root, append([]string{"diff", "--cached", "--name-only", "--"}, rel...)...)
	if err != nil {
		return fmt.Errorf("inspect staged files: %w", errors.Join(ErrVCS, err))
	}
	if strings.TrimSpace(staged) == "" {
		return ErrNothingToCommit
	}

	commitArgs := append([]string{"commit", "-m", message, "--"}, rel...)
	if _, err := execGit(ctx, m.runner, m.root, commitArgs...); err != nil {
		return fmt.Errorf("commit: %w", errors.Join(ErrVCS, err))
	}

	m.logger.Debug("commit created", "files", len(rel))
	return nil
}

// relative converts p to a slash-separated path relative to the repository
// root. Absolute paths are compared with symlinks resolved, since git
// reports the resolved top level.
func (m *gitManager) relative(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	r, err := filepath.Rel(resolveLinks(m.root), resolveLinks(p))
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside repository %s: %w", p, m.root, ErrVCS)
	}
	return filepath.ToSlash(r), nil
}

// resolveLinks evaluates symlinks in p, or cleans p when it cannot be resolved.
func resolveLinks(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return filepath.Clean(p)
}

// execGit executes a git command in the given directory and returns stdout.
func execGit(ctx context.Context, runner shell.Runner, dir string, args ...string) (string, error) {
	res, err := runner.Run(ctx, dir, "git", args...)
	if err != nil {
		if errors.Is(err, shell.ErrCommandNotFound) {
			return "", fmt.Errorf("system git lookup: %w", ErrSystemGitNotFound)
		}
		if len(args) > 0 {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git: %w", err)
	}
	return strings.TrimRight(res.Stdout, "\n\r"), nil
}
