package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/wpforge/wprelease/internal/ui"
)

const guideWrapWidth = 80

// usageGuide is the markdown shown by `wprelease help`.
const usageGuide = "# wprelease\n\n" +
	"Bump, package and publish a WordPress plugin from its project directory.\n\n" +
	"## Commands\n\n" +
	"| Command | Description |\n" +
	"|---|---|\n" +
	"| `init` | Create `.wprelease.json` from the plugin header and package files |\n" +
	"| `release [patch\\|minor\\|major]` | Bump the version, commit, build, zip and upload (default: patch) |\n" +
	"| `patch`, `minor`, `major` | Shortcuts for `release <type>` |\n" +
	"| `set-ftp` | Store FTP credentials for this plugin |\n" +
	"| `show-ftp` | Show the effective FTP settings and where each value comes from |\n" +
	"| `ftp-disable` | Turn off uploads for this plugin |\n" +
	"| `version` | Print the wprelease version |\n" +
	"| `help` | Show this guide |\n\n" +
	"## Flags\n\n" +
	"- `-y, --yes` skip every prompt and accept defaults\n" +
	"- `-v, --verbose` log debug output to stderr\n" +
	"- `--root <dir>` plugin project directory (default: current directory)\n" +
	"- `--skip-install`, `--skip-build`, `--skip-upload` skip a release step\n\n" +
	"## Credentials\n\n" +
	"FTP values are resolved per key from the credential store (`set-ftp`), then the\n" +
	"environment (`FTP_HOST`, `FTP_USER`, `FTP_PASS`, `FTP_PORT`, `UPDATE_SERVER_PATH`),\n" +
	"then `ftpConfig` in `.wprelease.json`.\n\n" +
	"Set `WPRELEASE_LOG_LEVEL` to `debug`, `info`, `warn` or `error` to change logging.\n"

// renderGuide writes the usage guide, styled with glamour on a terminal.
func renderGuide(w io.Writer) {
	out := usageGuide
	if f, ok := w.(*os.File); ok && ui.IsTerminal(f) {
		if rendered, err := renderMarkdown(usageGuide, guideWrapWidth); err == nil {
			out = rendered
		}
	}
	_, _ = fmt.Fprint(w, out)
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
