package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpforge/wprelease/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wprelease version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "wprelease %s\n", version.GetFullVersion())
		if version.IsDevBuild() {
			_, _ = fmt.Fprintln(out, cliMuted.Render("development build"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
