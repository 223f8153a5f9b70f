package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wpforge/wprelease/internal/config"
	"github.com/wpforge/wprelease/internal/core/project"
	"github.com/wpforge/wprelease/pkg/models"
	"github.com/wpforge/wprelease/pkg/version"
)

// ErrUnknownCommand is returned for a verb that is not registered.
var ErrUnknownCommand = errors.New("unknown command")

var rootCmd = &cobra.Command{
	Use:   "wprelease [command]",
	Short: "Version, package and publish WordPress plugins",
	Long: `wprelease releases a WordPress plugin from its project directory.

It bumps the version in the plugin header, package manifests and readme,
commits the bump, installs dependencies, runs the build, packages
<slug>.zip and uploads it to an update server over FTP.`,
	Version:           version.GetVersion(),
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	RunE:              runRoot,
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the wprelease CLI
// @MX:REASON: [AUTO] sole entry from cmd/wprelease/main.go; owns the process signal context
// Execute initializes dependencies and runs the root command. Errors are
// printed here; the caller only maps them to an exit status.
func Execute() error {
	InitDependencies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %v\n", symError(), err)
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("wprelease %s\n", version.GetVersion()))

	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip prompts and accept defaults")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("root", "", "Plugin project directory (default: current directory)")

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		renderGuide(cmd.OutOrStdout())
	})
}

// setupRun configures logging and headless mode before any command runs.
func setupRun(cmd *cobra.Command, _ []string) error {
	d := ensureDeps()
	d.SetLogger(newLogger(cmd.ErrOrStderr(), getBoolFlag(cmd, "verbose"), d.Getenv))
	if getBoolFlag(cmd, "yes") {
		d.Headless.ForceHeadless(true)
	}
	return nil
}

// runRoot shows the guide without a verb and rejects unknown verbs.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// projectRoot returns the absolute project directory. Without --root the
// nearest ancestor holding a settings file wins, else the working directory.
func projectRoot(cmd *cobra.Command) (string, error) {
	if root := getStringFlag(cmd, "root"); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve project root: %w", err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return project.FindProjectRootOrCurrent(wd)
}

// loadProject loads the settings of the project root, prompting for
// missing fields unless running headless.
func loadProject(cmd *cobra.Command, d *Dependencies) (string, *models.ReleaseConfig, *config.Manager, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return "", nil, nil, err
	}

	opts := config.LoadOptions{SkipPrompts: d.Headless.IsHeadless()}
	if !opts.SkipPrompts {
		opts.Prompter = d.EnsurePrompter()
	}

	mgr := d.ConfigManager()
	cfg, err := mgr.Load(root, opts)
	if err != nil {
		return "", nil, nil, err
	}
	return root, cfg, mgr, nil
}

// interactive reports whether the operator may be asked questions.
func interactive(cmd *cobra.Command, d *Dependencies) bool {
	return !getBoolFlag(cmd, "yes") && !d.Headless.IsHeadless()
}
