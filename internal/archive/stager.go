package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/pkg/models"
)

// Result describes a produced archive.
type Result struct {
	// Path is the absolute path of <slug>.zip.
	Path     string
	Manifest Manifest
	Members  int
	// Warnings are problems that did not prevent the archive.
	Warnings []error
}

// Option configures a Stager.
type Option func(*Stager)

// WithCopyDir replaces the native directory copy used when rsync is
// unavailable or fails.
func WithCopyDir(fn CopyDirFunc) Option {
	return func(s *Stager) { s.copyDir = fn }
}

// Stager builds release archives. It owns the scratch directory for the
// duration of Build.
type Stager struct {
	runner  shell.Runner
	copyDir CopyDirFunc
	logger  *slog.Logger
}

// NewStager creates a Stager. A nil runner disables rsync.
func NewStager(runner shell.Runner, logger *slog.Logger, opts ...Option) *Stager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Stager{
		runner:  runner,
		copyDir: CopyDir,
		logger:  logger.With("module", "archive"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScratchDir returns the staging directory used under root.
func ScratchDir(root string) string {
	return filepath.Join(root, defs.StagingDir)
}

// @MX:ANCHOR: [AUTO] Build is the only fatal step after configuration; the release stops before upload when it fails
// @MX:REASON: [AUTO] fan_in=2, called from the release pipeline and stager tests
// Build stages the manifest of cfg into the scratch directory and
// compresses it into <root>/<slug>.zip. The scratch directory is removed on
// every return path. Errors wrap ErrZip.
func (s *Stager) Build(ctx context.Context, root string, cfg *models.ReleaseConfig) (res *Result, err error) {
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %v: %w", err, ErrZip)
	}

	manifest, err := Resolve(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve include list: %v: %w", err, ErrZip)
	}
	res = &Result{
		Path:     filepath.Join(root, cfg.ArchiveName()),
		Manifest: manifest,
	}

	if err := os.Remove(res.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("could not remove previous archive", "path", res.Path, "error", err)
		res.Warnings = append(res.Warnings, fmt.Errorf("remove previous archive: %w", err))
	}

	scratch := ScratchDir(root)
	if err := os.RemoveAll(scratch); err != nil {
		return nil, fmt.Errorf("clear scratch directory: %v: %w", err, ErrZip)
	}
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %v: %w", err, ErrZip)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			s.logger.Warn("scratch directory not removed", "path", scratch, "error", rmErr)
		}
	}()

	excluded := NewMatcher(cfg.ExcludedFiles)
	for _, e := range manifest {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("staging cancelled: %v: %w", err, ErrZip)
		}
		warnings, err := s.stageEntry(ctx, e, scratch, excluded)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %v: %w", e.Dest, err, ErrZip)
		}
	}

	s.logger.Info("compressing archive", "path", res.Path)
	members, err := writeZip(scratch, res.Path)
	if err != nil {
		return nil, fmt.Errorf("write %s: %v: %w", cfg.ArchiveName(), err, ErrZip)
	}
	res.Members = members
	s.logger.Info("archive created", "path", res.Path, "files", members)
	return res, nil
}

// stageEntry copies one manifest entry into scratch.
func (s *Stager) stageEntry(ctx context.Context, e Entry, scratch string, excluded Matcher) ([]error, error) {
	info, err := os.Stat(e.Source)
	if os.IsNotExist(err) {
		s.logger.Warn("included path not found, skipping", "path", e.Dest)
		return []error{fmt.Errorf("%s: %w", e.Dest, ErrMissingSource)}, nil
	}
	if err != nil {
		return nil, err
	}

	name := filepath.Base(e.Source)
	if excluded.Match(name) {
		s.logger.Info("excluded from archive", "path", e.Dest)
		return nil, nil
	}

	dst := filepath.Join(scratch, filepath.FromSlash(e.Dest))
	if !info.IsDir() {
		s.logger.Debug("copying file", "path", e.Dest)
		return nil, copyFile(e.Source, dst, info.Mode().Perm())
	}

	var warnings []error
	vendor := name == defs.VendorDir
	if vendor {
		if w := checkVendorLoader(e.Source, "source"); w != nil {
			s.logger.Warn("vendor autoloader missing before copy", "path", e.Dest)
			warnings = append(warnings, w)
		}
	}

	if err := s.mirrorDir(ctx, e, dst, excluded); err != nil {
		return warnings, err
	}

	if vendor {
		if w := checkVendorLoader(dst, "staged copy"); w != nil {
			s.logger.Warn("vendor autoloader missing after copy", "path", e.Dest)
			warnings = append(warnings, w)
		}
	}
	return warnings, nil
}

// mirrorDir copies directory e into dst with rsync, falling back to the
// native copy. Both paths apply the exclusions.
func (s *Stager) mirrorDir(ctx context.Context, e Entry, dst string, excluded Matcher) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	if s.runner != nil {
		rsyncCtx, cancel := context.WithTimeout(ctx, defs.DefaultCommandTimeout)
		defer cancel()

		args := append([]string{"-a"}, excluded.RsyncArgs()...)
		args = append(args, e.Source+string(filepath.Separator), dst+string(filepath.Separator))
		_, err := s.runner.Run(rsyncCtx, "", "rsync", args...)
		if err == nil {
			s.logger.Debug("directory synced", "path", e.Dest, "via", "rsync")
			return nil
		}
		if errors.Is(err, shell.ErrCommandNotFound) {
			s.logger.Debug("rsync unavailable, using native copy", "path", e.Dest)
		} else {
			s.logger.Warn("rsync failed, using native copy", "path", e.Dest, "error", err)
		}
		// rsync may have left a partial tree.
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}

	if err := s.copyDir(e.Source, dst, excluded); err != nil {
		return err
	}
	s.logger.Debug("directory copied", "path", e.Dest, "via", "native")
	return nil
}

// checkVendorLoader reports a warning when dir lacks the composer autoloader.
func checkVendorLoader(dir, stage string) error {
	if _, err := os.Stat(filepath.Join(dir, defs.VendorLoader)); err != nil {
		return fmt.Errorf("%s/%s in %s: %w", defs.VendorDir, defs.VendorLoader, stage, ErrVendorLoader)
	}
	return nil
}
