package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wpforge/wprelease/internal/config"
	"github.com/wpforge/wprelease/internal/defs"
	"github.com/wpforge/wprelease/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the project settings file",
	Long: `Create .wprelease.json in the project root.

Plugin name, slug and main file are read from the plugin header and
package.json; the package manager is detected from lockfiles. Fields that
cannot be derived are asked for, or reported as missing with --yes.
A new settings file asks which package manager to use. An existing file
keeps its values; identity fields it lacks are derived and written back.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	d := ensureDeps()
	out := cmd.OutOrStdout()

	_, _, mgr, err := loadProject(cmd, d)
	if err != nil {
		return err
	}

	switch {
	case mgr.Created():
		if interactive(cmd, d) {
			if err := choosePackageManager(d, mgr); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintf(out, "%s Created %s\n\n", symSuccess(), defs.SettingsJSON)
	case len(mgr.Completed()) > 0:
		fields := mgr.Completed()
		if err := mgr.Save(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s Completed %s (%s)\n\n", symSuccess(), defs.SettingsJSON, strings.Join(fields, ", "))
	default:
		_, _ = fmt.Fprintf(out, "%s %s already exists\n\n", symSuccess(), defs.SettingsJSON)
	}

	cfg := mgr.Get()
	_, _ = fmt.Fprintln(out, renderCard(cliPrimary.Render(cfg.PluginName), kvLines(configRows(cfg))))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Next steps:")
	_, _ = fmt.Fprintln(out, "   wprelease set-ftp     store upload credentials")
	_, _ = fmt.Fprintln(out, "   wprelease release     publish a patch release")
	return nil
}

// choosePackageManager confirms the detected package manager. A derived
// build command follows the new choice.
func choosePackageManager(d *Dependencies, mgr *config.Manager) error {
	cfg := mgr.Get()
	options := make([]string, 0, len(models.ValidPackageManagers()))
	for _, pm := range models.ValidPackageManagers() {
		options = append(options, string(pm))
	}

	answer, err := d.EnsurePrompter().Select("Package manager", options, string(cfg.PackageManager))
	if err != nil {
		return err
	}
	pm := models.PackageManager(answer)
	if pm == cfg.PackageManager {
		return nil
	}
	if cfg.BuildCommand == cfg.PackageManager.RunScriptCommand(config.DefaultBuildScript) {
		cfg.BuildCommand = pm.RunScriptCommand(config.DefaultBuildScript)
	}
	cfg.PackageManager = pm
	if err := mgr.Set(cfg); err != nil {
		return err
	}
	return mgr.Save()
}

// configRows summarizes the settings a release depends on.
func configRows(cfg *models.ReleaseConfig) []kv {
	build := cfg.BuildCommand
	if build == "" {
		build = cliMuted.Render("none")
	}
	upload := "disabled"
	if cfg.FTP.Enabled {
		upload = "enabled"
	}
	return []kv{
		{"Slug", cfg.PluginSlug},
		{"Main file", cfg.MainFile},
		{"Package manager", string(cfg.PackageManager)},
		{"Build command", build},
		{"Archive", cfg.ArchiveName()},
		{"Upload (file)", upload},
	}
}
