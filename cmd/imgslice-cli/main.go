// Command imgslice-cli slices an image into a multi-page PDF without a GUI.
package main

import (
	"os"

	"github.com/piwi3910/imgslice/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
