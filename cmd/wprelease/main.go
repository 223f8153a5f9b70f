// @MX:ANCHOR: [AUTO] main is the entry point of the wprelease binary. Any error exits with status 1.
// @MX:REASON: the only entry point of the executable; delegates to the cobra command tree
package main

import (
	"os"

	"github.com/wpforge/wprelease/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
