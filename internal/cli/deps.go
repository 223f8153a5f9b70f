// Package cli provides the Cobra command tree and dependency injection
// wiring for wprelease. This file defines the Dependencies struct
// (Composition Root) that wires the release components together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wpforge/wprelease/internal/archive"
	"github.com/wpforge/wprelease/internal/config"
	"github.com/wpforge/wprelease/internal/credential"
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/internal/release"
	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/internal/ui"
	"github.com/wpforge/wprelease/internal/upload"
	"github.com/wpforge/wprelease/pkg/models"
)

// StoreOpener opens the credential store scoped to one plugin slug.
type StoreOpener func(scope string) (credential.Provider, error)

// Dependencies holds the services used by CLI commands. This is the only
// place where concrete types are instantiated and wired together.
type Dependencies struct {
	Runner   shell.Runner
	Headless *ui.HeadlessManager
	Theme    *ui.Theme
	Dialer   upload.Dialer
	Getenv   func(string) string
	Logger   *slog.Logger

	// OpenStore defaults to the per-user file store.
	OpenStore StoreOpener

	// Prompter and Progress are resolved on first use so that --yes,
	// parsed after InitDependencies, can still force headless mode.
	Prompter ui.Prompter
	Progress ui.Progress
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// @MX:ANCHOR: [AUTO] InitDependencies is the Composition Root that wires all release components
// @MX:REASON: [AUTO] fan_in=2, called from Execute and ensureDeps
// InitDependencies creates and wires the production dependencies.
func InitDependencies() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps = &Dependencies{
		Runner:   shell.NewExecRunner(logger),
		Headless: ui.NewHeadlessManager(),
		Theme:    ui.NewTheme(),
		Dialer:   upload.FTPDialer{Timeout: defs.DefaultFTPDialTimeout},
		Getenv:   os.Getenv,
		Logger:   logger,
	}
}

// GetDeps returns the current Dependencies instance.
// Returns nil if InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// ensureDeps returns the global dependencies, creating them if needed.
func ensureDeps() *Dependencies {
	if deps == nil {
		InitDependencies()
	}
	return deps
}

// SetLogger replaces the logger of every logger-aware dependency.
func (d *Dependencies) SetLogger(logger *slog.Logger) {
	d.Logger = logger
	if _, ok := d.Runner.(*shell.ExecRunner); ok {
		d.Runner = shell.NewExecRunner(logger)
	}
}

// EnsurePrompter returns the prompter, creating it from the headless state.
func (d *Dependencies) EnsurePrompter() ui.Prompter {
	if d.Prompter == nil {
		d.Prompter = ui.NewPrompter(d.Headless)
	}
	return d.Prompter
}

// EnsureProgress returns the step progress renderer.
func (d *Dependencies) EnsureProgress() ui.Progress {
	if d.Progress == nil {
		d.Progress = ui.NewProgress(d.Theme, d.Headless)
	}
	return d.Progress
}

// ConfigManager returns a fresh settings manager. No state survives a run.
func (d *Dependencies) ConfigManager() *config.Manager {
	return config.NewManager(nil, d.Logger)
}

// Resolver returns the credential resolver for a plugin slug.
func (d *Dependencies) Resolver(slug string) (credential.Resolver, error) {
	open := d.OpenStore
	if open == nil {
		open = d.openFileStore
	}
	store, err := open(slug)
	if err != nil {
		return credential.Resolver{}, err
	}
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return credential.Resolver{Store: store, Getenv: getenv}, nil
}

// Pipeline wires a release pipeline for cfg at root.
func (d *Dependencies) Pipeline(root string, cfg *models.ReleaseConfig) (*release.Pipeline, error) {
	resolver, err := d.Resolver(cfg.PluginSlug)
	if err != nil {
		return nil, err
	}
	return release.New(root, cfg, release.Deps{
		Runner:      d.Runner,
		Credentials: resolver,
		Stager:      archive.NewStager(d.Runner, d.Logger),
		Uploader:    upload.NewUploader(d.Dialer, d.Logger),
		Progress:    d.EnsureProgress(),
		Logger:      d.Logger,
	}), nil
}

// openFileStore opens the per-user YAML credential store.
func (d *Dependencies) openFileStore(scope string) (credential.Provider, error) {
	path, err := credential.DefaultStorePath()
	if err != nil {
		return nil, fmt.Errorf("locate credential store: %w", err)
	}
	return credential.NewFileStore(path, scope, d.Logger), nil
}
