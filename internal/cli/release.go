package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wpforge/wprelease/internal/release"
	"github.com/wpforge/wprelease/internal/versioning"
	"github.com/wpforge/wprelease/pkg/models"
)

var releaseCmd = &cobra.Command{
	Use:   "release [patch|minor|major]",
	Short: "Bump, build, package and upload the plugin",
	Long: `Run a full release of the plugin in the project root:

  1. bump the version in package.json, composer.json, the main plugin
     file and readme.txt, then commit the changed files
  2. install dependencies with the configured package manager and composer
  3. run the build command
  4. package <slug>.zip
  5. upload the archive over FTP when uploads are enabled

Only a missing version or a packaging failure stops the release; other
problems are reported as warnings. The release type defaults to patch;
unknown types release a patch with a warning.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: releaseTypeNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		releaseType := ""
		if len(args) == 1 {
			releaseType = args[0]
		}
		return runRelease(cmd, releaseType)
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	addReleaseFlags(releaseCmd)

	for _, t := range versioning.ReleaseTypes() {
		c := newBumpCmd(t)
		addReleaseFlags(c)
		rootCmd.AddCommand(c)
	}
}

// newBumpCmd creates the `patch`, `minor` or `major` shortcut.
func newBumpCmd(t versioning.ReleaseType) *cobra.Command {
	return &cobra.Command{
		Use:   string(t),
		Short: fmt.Sprintf("Shortcut for release %s", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd, string(t))
		},
	}
}

func addReleaseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-install", false, "Do not install dependencies")
	cmd.Flags().Bool("skip-build", false, "Do not run the build command")
	cmd.Flags().Bool("skip-upload", false, "Package only, do not upload")
}

func releaseTypeNames() []string {
	types := versioning.ReleaseTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// @MX:ANCHOR: [AUTO] runRelease backs release, patch, minor and major
// @MX:REASON: [AUTO] fan_in=4, every release verb funnels through here
func runRelease(cmd *cobra.Command, releaseType string) error {
	d := ensureDeps()
	out := cmd.OutOrStdout()

	root, cfg, _, err := loadProject(cmd, d)
	if err != nil {
		return err
	}
	p, err := d.Pipeline(root, cfg)
	if err != nil {
		return err
	}

	current, next, err := p.Plan(releaseType)
	if err != nil {
		return err
	}

	if interactive(cmd, d) {
		ok, err := d.EnsurePrompter().Confirm(
			fmt.Sprintf("Release %s %s → %s?", cfg.PluginName, current, next),
			"Writes and commits the new version, then builds, packages and uploads.",
			true,
		)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintf(out, "%s Release cancelled\n", symWarning())
			return nil
		}
	}

	report, err := p.Run(cmd.Context(), release.Options{
		Type:        releaseType,
		SkipInstall: getBoolFlag(cmd, "skip-install"),
		SkipBuild:   getBoolFlag(cmd, "skip-build"),
		SkipUpload:  getBoolFlag(cmd, "skip-upload"),
	})
	renderReport(out, cfg, report)
	return err
}

// renderReport prints a card with one line per step and its warnings.
func renderReport(w io.Writer, cfg *models.ReleaseConfig, r *release.Report) {
	if r == nil {
		return
	}

	lines := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		lines = append(lines, outcomeLine(o))
		for _, warning := range o.Warnings {
			lines = append(lines, "    "+cliWarn.Render(warning.Error()))
		}
	}
	if r.Archive != "" {
		lines = append(lines, "", cliMuted.Render("Archive  ")+filepath.Base(r.Archive))
	}

	title := cliPrimary.Render(fmt.Sprintf("%s %s", cfg.PluginName, r.To))
	if r.From != r.To {
		title += cliMuted.Render(fmt.Sprintf("  (from %s)", r.From))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, renderCard(title, lines))
	_, _ = fmt.Fprintln(w)

	if r.Fatal() != nil {
		return
	}
	if n := r.WarningCount(); n > 0 {
		_, _ = fmt.Fprintf(w, "%s Released %s with %d warning(s)\n", symWarning(), r.To, n)
		return
	}
	_, _ = fmt.Fprintf(w, "%s Released %s\n", symSuccess(), r.To)
}

func outcomeLine(o release.Outcome) string {
	sym := symSuccess()
	switch {
	case o.Err != nil:
		sym = symError()
	case !o.OK:
		sym = symWarning()
	case o.Skipped:
		sym = symSkipped()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-8s", sym, o.Step)
	if o.Detail != "" {
		b.WriteString(" " + cliMuted.Render(o.Detail))
	}
	if o.Err != nil {
		b.WriteString(" " + cliError.Render(o.Err.Error()))
	}
	return b.String()
}
