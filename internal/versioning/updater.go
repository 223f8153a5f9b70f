package versioning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wpforge/wprelease/internal/core/git"
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

// Committer records changed files in version control.
type Committer interface {
	CommitFiles(ctx context.Context, message string, paths ...string) error
}

// Result reports what Apply did. Warnings never abort a release.
type Result struct {
	Version   Version
	Changed   []string
	Committed bool
	Warnings  []error
}

// Updated reports whether any file was rewritten.
func (r *Result) Updated() bool {
	return len(r.Changed) > 0
}

// target is one file carrying the version and the edit applied to it.
type target struct {
	path    string
	rewrite func(content []byte, v string) ([]byte, bool, error)
}

// Updater writes a new version into the project files of one root.
type Updater struct {
	root   string
	repo   Committer
	logger *slog.Logger
}

// NewUpdater creates an Updater. A nil repo disables the commit.
func NewUpdater(root string, repo Committer, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Updater{
		root:   filepath.Clean(root),
		repo:   repo,
		logger: logger.With("module", "versioning"),
	}
}

// Apply rewrites v into package.json, composer.json, the main plugin file
// and readme.txt, skipping those that do not exist, then commits the
// changed files. Write and commit failures are returned as warnings; edits
// already made are kept.
func (u *Updater) Apply(ctx context.Context, cfg *models.ReleaseConfig, v Version) *Result {
	res := &Result{Version: v}
	next := v.String()

	for _, t := range u.targets(cfg) {
		changed, err := u.rewriteFile(t, next)
		if err != nil {
			u.logger.Warn("version target not updated", "file", t.path, "error", err)
			res.Warnings = append(res.Warnings, err)
			continue
		}
		if changed {
			res.Changed = append(res.Changed, t.path)
		}
	}

	if !res.Updated() {
		u.logger.Info("no version targets changed", "version", next)
		return res
	}
	u.logger.Info("version written", "version", next, "files", res.Changed)

	if u.repo == nil {
		return res
	}
	paths := make([]string, len(res.Changed))
	for i, c := range res.Changed {
		paths[i] = filepath.Join(u.root, filepath.FromSlash(c))
	}
	err := u.repo.CommitFiles(ctx, CommitMessage(v), paths...)
	switch {
	case err == nil:
		res.Committed = true
	case errors.Is(err, git.ErrNothingToCommit):
		u.logger.Debug("version files already committed")
	default:
		u.logger.Warn("version bump not committed", "error", err)
		res.Warnings = append(res.Warnings, err)
	}
	return res
}

// targets lists the version-carrying files in rewrite order.
func (u *Updater) targets(cfg *models.ReleaseConfig) []target {
	ts := []target{
		{path: defs.PackageJSON, rewrite: SetManifestVersion},
		{path: defs.ComposerJSON, rewrite: SetManifestVersion},
	}
	if cfg.MainFile != "" {
		constants := ConstantPatterns(cfg.PluginSlug)
		ts = append(ts, target{path: filepath.ToSlash(filepath.Clean(cfg.MainFile)), rewrite: func(content []byte, v string) ([]byte, bool, error) {
			out, changed := RewriteHeaderVersion(string(content), v)
			for _, re := range constants {
				var c bool
				out, c = RewriteVersionField(out, re, v)
				changed = changed || c
			}
			return []byte(out), changed, nil
		}})
	}
	ts = append(ts, target{path: defs.ReadmeTXT, rewrite: func(content []byte, v string) ([]byte, bool, error) {
		out, changed := RewriteVersionField(string(content), StableTagPattern, v)
		return []byte(out), changed, nil
	}})
	return ts
}

// rewriteFile applies t in place. A missing file is not an error.
func (u *Updater) rewriteFile(t target, v string) (bool, error) {
	path := filepath.Join(u.root, filepath.FromSlash(t.path))
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		u.logger.Debug("version target absent", "file", t.path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %v: %w", t.path, err, ErrWrite)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %v: %w", t.path, err, ErrWrite)
	}
	out, changed, err := t.rewrite(content, v)
	if err != nil {
		return false, fmt.Errorf("%s: %v: %w", t.path, err, ErrWrite)
	}
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %v: %w", t.path, err, ErrWrite)
	}
	return true, nil
}
