package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wpforge/wprelease/internal/credential"
	"github.com/wpforge/wprelease/internal/upload"
)

// errInvalidPort rejects ports outside 1-65535.
var errInvalidPort = errors.New("invalid FTP port")

var setFTPCmd = &cobra.Command{
	Use:   "set-ftp",
	Short: "Store FTP credentials for this plugin",
	Long: `Store the FTP upload target of this plugin in the user credential
store and enable uploads.

Values not given as flags are asked for, defaulting to the currently
effective value. The password is never echoed; leaving it empty keeps the
stored one. With --yes nothing is asked and a host must be known.`,
	Args: cobra.NoArgs,
	RunE: runSetFTP,
}

var showFTPCmd = &cobra.Command{
	Use:   "show-ftp",
	Short: "Show the effective FTP settings",
	Long: `Show the FTP settings a release would use and where each value comes
from: the credential store, the environment, .wprelease.json or a default.
The password is masked.`,
	Args: cobra.NoArgs,
	RunE: runShowFTP,
}

var ftpDisableCmd = &cobra.Command{
	Use:   "ftp-disable",
	Short: "Turn off uploads for this plugin",
	Args:  cobra.NoArgs,
	RunE:  runFTPDisable,
}

func init() {
	rootCmd.AddCommand(setFTPCmd, showFTPCmd, ftpDisableCmd)

	setFTPCmd.Flags().String("host", "", "FTP server host name")
	setFTPCmd.Flags().String("user", "", "FTP user name")
	setFTPCmd.Flags().String("password", "", "FTP password")
	setFTPCmd.Flags().Int("port", 0, "FTP port (default 21)")
	setFTPCmd.Flags().String("path", "", "Remote directory for the archive")
}

// getIntFlag retrieves an int flag value from the command.
func getIntFlag(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return val
}

func runSetFTP(cmd *cobra.Command, _ []string) error {
	d := ensureDeps()
	out := cmd.OutOrStdout()

	_, cfg, _, err := loadProject(cmd, d)
	if err != nil {
		return err
	}
	resolver, err := d.Resolver(cfg.PluginSlug)
	if err != nil {
		return err
	}
	current := resolver.Resolve(cfg.FTP)

	values := make(map[string]string)
	for flag, key := range map[string]string{
		"host":     credential.KeyHost,
		"user":     credential.KeyUser,
		"password": credential.KeyPassword,
		"path":     credential.KeyPath,
	} {
		if cmd.Flags().Changed(flag) {
			values[key] = strings.TrimSpace(getStringFlag(cmd, flag))
		}
	}
	if cmd.Flags().Changed("port") {
		values[credential.KeyPort] = strconv.Itoa(getIntFlag(cmd, "port"))
	}

	if interactive(cmd, d) {
		if err := promptFTP(d, current, values); err != nil {
			return err
		}
	}

	if err := validateFTPValues(current, values); err != nil {
		return err
	}

	store := resolver.Store
	for _, key := range credential.Keys() {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := store.Set(key, v); err != nil {
			return err
		}
	}
	if err := store.Set(credential.KeyEnabled, "true"); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s FTP credentials saved for %s, uploads enabled\n\n", symSuccess(), cfg.PluginSlug)
	printCredentials(cmd, cfg.PluginSlug, resolver.Resolve(cfg.FTP))
	return nil
}

// promptFTP asks for every value not already given as a flag.
func promptFTP(d *Dependencies, current credential.FTPCredentials, values map[string]string) error {
	p := d.EnsurePrompter()

	ask := func(key, title, description, def string) error {
		if _, ok := values[key]; ok {
			return nil
		}
		v, err := p.Input(title, description, def)
		if err != nil {
			return err
		}
		values[key] = strings.TrimSpace(v)
		return nil
	}

	if err := ask(credential.KeyHost, "FTP host", "Update server host name", current.Host); err != nil {
		return err
	}
	if err := ask(credential.KeyUser, "FTP user", "", current.User); err != nil {
		return err
	}
	if _, ok := values[credential.KeyPassword]; !ok {
		desc := ""
		if current.Password != "" {
			desc = "Leave empty to keep the current password"
		}
		v, err := p.Password("FTP password", desc)
		if err != nil {
			return err
		}
		if v != "" || current.Password == "" {
			values[credential.KeyPassword] = v
		}
	}
	if err := ask(credential.KeyPort, "FTP port", "", strconv.Itoa(current.Port)); err != nil {
		return err
	}
	return ask(credential.KeyPath, "Remote path", "Directory on the update server that receives the archive", current.Path)
}

// validateFTPValues checks the values about to be stored. A host must be
// known after the update.
func validateFTPValues(current credential.FTPCredentials, values map[string]string) error {
	host, ok := values[credential.KeyHost]
	if !ok {
		host = current.Host
	}
	if host == "" {
		return fmt.Errorf("set-ftp: %w (pass --host)", upload.ErrNoHost)
	}
	if raw, ok := values[credential.KeyPort]; ok {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%w: %q", errInvalidPort, raw)
		}
	}
	return nil
}

func runShowFTP(cmd *cobra.Command, _ []string) error {
	d := ensureDeps()

	_, cfg, _, err := loadProject(cmd, d)
	if err != nil {
		return err
	}
	resolver, err := d.Resolver(cfg.PluginSlug)
	if err != nil {
		return err
	}
	printCredentials(cmd, cfg.PluginSlug, resolver.Resolve(cfg.FTP))
	return nil
}

func runFTPDisable(cmd *cobra.Command, _ []string) error {
	d := ensureDeps()

	_, cfg, _, err := loadProject(cmd, d)
	if err != nil {
		return err
	}
	resolver, err := d.Resolver(cfg.PluginSlug)
	if err != nil {
		return err
	}
	if err := resolver.Store.Set(credential.KeyEnabled, "false"); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Uploads disabled for %s\n", symSuccess(), cfg.PluginSlug)
	return nil
}

// printCredentials renders the effective credentials with their sources.
// The password is always masked.
func printCredentials(cmd *cobra.Command, slug string, c credential.FTPCredentials) {
	rows := make([]kv, 0, len(credential.Keys()))
	for _, key := range credential.Keys() {
		v := c.Value(key)
		if key == credential.KeyPassword {
			v = credential.Mask(v)
		}
		if v == "" {
			v = cliMuted.Render("(not set)")
		}
		rows = append(rows, kv{key, v + "  " + cliMuted.Render("("+string(c.Sources[key])+")")})
	}

	state := cliWarn.Render("uploads disabled")
	if c.Enabled {
		state = cliSuccess.Render("uploads enabled")
	}
	title := cliPrimary.Render("FTP · "+slug) + "  " + state
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderCard(title, kvLines(rows)))
}
