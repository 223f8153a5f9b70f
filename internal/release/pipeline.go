package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wpforge/wprelease/internal/archive"
	"github.com/wpforge/wprelease/internal/core/git"
	"github.com/wpforge/wprelease/internal/credential"
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/internal/ui"
	"github.com/wpforge/wprelease/internal/upload"
	"github.com/wpforge/wprelease/internal/versioning"
	"github.com/wpforge/wprelease/pkg/models"
)

// Options selects what a run does.
type Options struct {
	// Type is the release type as typed by the operator. Unknown values
	// release a patch with a warning.
	Type string

	SkipInstall bool
	SkipBuild   bool
	SkipUpload  bool
}

// Deps are the collaborators of a Pipeline. Runner and Credentials are
// required; the rest have defaults.
type Deps struct {
	Runner      shell.Runner
	Credentials credential.Resolver
	Stager      *archive.Stager
	Uploader    *upload.Uploader
	Progress    ui.Progress
	Logger      *slog.Logger
}

// Pipeline releases the plugin at one project root.
type Pipeline struct {
	root   string
	cfg    *models.ReleaseConfig
	deps   Deps
	logger *slog.Logger
}

// New creates a Pipeline for cfg rooted at root.
func New(root string, cfg *models.ReleaseConfig, d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Stager == nil {
		d.Stager = archive.NewStager(d.Runner, d.Logger)
	}
	if d.Uploader == nil {
		d.Uploader = upload.NewUploader(nil, d.Logger)
	}
	return &Pipeline{
		root:   filepath.Clean(root),
		cfg:    cfg.Clone(),
		deps:   d,
		logger: d.Logger.With("module", "release"),
	}
}

// @MX:ANCHOR: [AUTO] Run is the release flow shared by release, patch, minor and major
// @MX:REASON: [AUTO] fan_in=3, called from cli release commands and the end-to-end tests
// Run executes every step in order. The returned error is non-nil only for
// fatal failures (no readable version, archive failure); the Report is
// always returned and holds the outcomes so far.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}

	current, next, out := p.planVersion(opts.Type)
	report.From, report.To = current, next
	if out.Err != nil {
		report.Outcomes = append(report.Outcomes, out)
		return report, out.Err
	}
	p.applyVersion(ctx, next, &out)
	report.Outcomes = append(report.Outcomes, out)

	report.Outcomes = append(report.Outcomes, p.install(ctx, opts.SkipInstall))
	report.Outcomes = append(report.Outcomes, p.build(ctx, opts.SkipBuild))

	archiveOut, archivePath := p.archive(ctx)
	report.Outcomes = append(report.Outcomes, archiveOut)
	if archiveOut.Err != nil {
		return report, archiveOut.Err
	}
	report.Archive = archivePath

	report.Outcomes = append(report.Outcomes, p.upload(ctx, archivePath, opts.SkipUpload))

	p.logger.Info("release finished", "version", next.String(), "warnings", report.WarningCount())
	return report, nil
}

// Plan returns the current and next version without changing anything.
func (p *Pipeline) Plan(releaseType string) (current, next versioning.Version, err error) {
	current, next, out := p.planVersion(releaseType)
	return current, next, out.Err
}

func (p *Pipeline) planVersion(releaseType string) (versioning.Version, versioning.Version, Outcome) {
	out := Outcome{Step: StepVersion}

	t, known := versioning.ParseReleaseType(releaseType)
	if !known && releaseType != "" {
		out.warn(fmt.Errorf("unknown release type %q, releasing a patch", releaseType))
	}

	current, src, err := versioning.CurrentVersion(p.root, p.cfg)
	if err != nil {
		out.Err = err
		return versioning.Version{}, versioning.Version{}, out
	}
	if src == versioning.SourceHeader {
		if mv, err := versioning.ManifestVersion(p.root); err == nil && versioning.Compare(mv, current) != 0 {
			out.warn(fmt.Errorf("%s has version %s, plugin header has %s", defs.PackageJSON, mv, current))
		}
	}
	next := versioning.Next(current, t)
	p.logger.Debug("version planned", "from", current.String(), "to", next.String(), "source", src)
	return current, next, out
}

func (p *Pipeline) applyVersion(ctx context.Context, next versioning.Version, out *Outcome) {
	var repo versioning.Committer
	if r, err := git.NewRepository(ctx, p.deps.Runner, p.root); err != nil {
		out.warn(fmt.Errorf("version bump will not be committed: %w", err))
	} else {
		repo = r
	}

	res := versioning.NewUpdater(p.root, repo, p.deps.Logger).Apply(ctx, p.cfg, next)
	for _, w := range res.Warnings {
		out.warn(w)
	}

	switch {
	case !res.Updated():
		out.Detail = "no version fields changed"
	case res.Committed:
		out.Detail = fmt.Sprintf("%s in %d file(s), committed", next, len(res.Changed))
	default:
		out.Detail = fmt.Sprintf("%s in %d file(s)", next, len(res.Changed))
	}
	out.OK = len(out.Warnings) == 0
}

func (p *Pipeline) install(ctx context.Context, skip bool) Outcome {
	out := Outcome{Step: StepInstall}
	if skip {
		out.OK, out.Skipped, out.Detail = true, true, "skipped by flag"
		return out
	}

	var ran []string
	if p.exists(defs.PackageJSON) {
		argv := p.cfg.PackageManager.InstallArgs()
		if err := p.runStep(ctx, "Installing "+argv[0]+" dependencies", argv[0], argv[1:]...); err != nil {
			out.warn(fmt.Errorf("%s: %v: %w", argv[0], err, ErrDependencyInstall))
		}
		ran = append(ran, argv[0])
	}
	if p.exists(defs.ComposerJSON) {
		if err := p.runStep(ctx, "Installing composer dependencies", "composer", "install", "--no-dev", "--optimize-autoloader"); err != nil {
			out.warn(fmt.Errorf("composer: %v: %w", err, ErrDependencyInstall))
		}
		ran = append(ran, "composer")
	}

	if len(ran) == 0 {
		out.OK, out.Skipped, out.Detail = true, true, "no package manifests"
		return out
	}
	out.OK = len(out.Warnings) == 0
	out.Detail = strings.Join(ran, ", ")
	return out
}

func (p *Pipeline) build(ctx context.Context, skip bool) Outcome {
	out := Outcome{Step: StepBuild}
	switch {
	case skip:
		out.OK, out.Skipped, out.Detail = true, true, "skipped by flag"
		return out
	case p.cfg.BuildCommand == "":
		out.OK, out.Skipped, out.Detail = true, true, "no build command"
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, defs.DefaultCommandTimeout)
	defer cancel()
	stop := p.spin("Building")
	_, err := shell.RunLine(ctx, p.deps.Runner, p.root, p.cfg.BuildCommand)
	stop()
	if err != nil {
		out.warn(fmt.Errorf("%s: %v: %w", p.cfg.BuildCommand, err, ErrBuild))
		return out
	}
	out.OK, out.Detail = true, p.cfg.BuildCommand
	return out
}

func (p *Pipeline) archive(ctx context.Context) (Outcome, string) {
	out := Outcome{Step: StepArchive}
	stop := p.spin("Packaging " + p.cfg.ArchiveName())
	res, err := p.deps.Stager.Build(ctx, p.root, p.cfg)
	stop()
	if err != nil {
		out.Err = err
		return out, ""
	}
	for _, w := range res.Warnings {
		out.warn(w)
	}
	out.OK = true
	out.Detail = fmt.Sprintf("%s (%d files)", filepath.Base(res.Path), res.Members)
	return out, res.Path
}

func (p *Pipeline) upload(ctx context.Context, archivePath string, skip bool) Outcome {
	out := Outcome{Step: StepUpload}
	if skip {
		out.OK, out.Skipped, out.Detail = true, true, "skipped by flag"
		return out
	}

	creds := p.deps.Credentials.Resolve(p.cfg.FTP)
	stop := func() {}
	if creds.Enabled {
		stop = p.spin("Uploading to " + creds.Host)
	}
	res, err := p.deps.Uploader.Upload(ctx, creds, archivePath)
	stop()
	if err != nil {
		out.warn(err)
		return out
	}
	out.OK, out.Skipped, out.Detail = true, res.Skipped, res.String()
	return out
}

// runStep runs one external command under the command timeout with a spinner.
func (p *Pipeline) runStep(ctx context.Context, title, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defs.DefaultCommandTimeout)
	defer cancel()

	stop := p.spin(title)
	defer stop()

	_, err := p.deps.Runner.Run(ctx, p.root, name, args...)
	return err
}

// spin starts a spinner when progress output is configured.
func (p *Pipeline) spin(title string) func() {
	if p.deps.Progress == nil {
		return func() {}
	}
	s := p.deps.Progress.Spinner(title)
	return s.Stop
}

func (p *Pipeline) exists(name string) bool {
	_, err := os.Stat(filepath.Join(p.root, name))
	return err == nil
}
