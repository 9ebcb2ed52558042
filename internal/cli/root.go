package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/imgslice/internal/project"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose   bool
	configDir string
}

// Execute runs the imgslice CLI. An interrupt cancels a running export
// without leaving a partial file behind.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{configDir: project.DefaultConfigDir()}

	root := &cobra.Command{
		Use:          "imgslice-cli",
		Short:        "Slice a large image into a multi-page PDF",
		Long:         `imgslice cuts a raster image into a grid of fixed-size slices and writes one slice per PDF page at 1:1 scale.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("imgslice %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", opts.configDir, "directory holding config.json and presets.json")

	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newPresetsCmd(opts))

	return root
}
