package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/imgslice/internal/engine"
	"github.com/piwi3910/imgslice/internal/export"
	"github.com/piwi3910/imgslice/internal/importer"
)

type planOpts struct {
	slice sliceOpts
	quiet bool
}

// newPlanCmd creates the plan command, which prints the pages an export
// would produce without writing anything.
func newPlanCmd(root *rootOpts) *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan [image]",
		Short: "Show how an image would be sliced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, root, &opts, args[0])
		},
	}
	opts.slice.register(cmd)
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the page count")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOpts, opts *planOpts, input string) error {
	logger := loggerFromContext(cmd.Context())
	out := cmd.OutOrStdout()

	app, presets, err := loadSettings(root.configDir)
	if err != nil {
		return err
	}
	bmp, err := importer.LoadImage(input)
	if err != nil {
		return err
	}
	logger.Debug("image loaded", "path", input, "format", bmp.Format, "width", bmp.Width(), "height", bmp.Height())

	cfg, err := opts.slice.resolve(cmd, app, presets, bmp.Width(), bmp.Height())
	if err != nil {
		return err
	}
	regions, err := engine.Plan(bmp.Width(), bmp.Height(), cfg)
	if err != nil {
		return err
	}

	if opts.quiet {
		fmt.Fprintln(out, len(regions))
		return nil
	}
	labels := export.CollectTileLabels(regions, bmp.Width(), cfg, filepath.Base(input))
	printPlan(out, bmp.Width(), bmp.Height(), cfg.String(), labels)
	if cfg.ClipsWidth(bmp.Width()) {
		printWarning(out, "vertical slices are %dpx wide but the image is %dpx wide", cfg.SliceWidth, bmp.Width())
	}
	return nil
}

func printPlan(w io.Writer, imageWidth, imageHeight int, config string, labels []export.TileLabel) {
	fmt.Fprintln(w, styleTitle.Render("Slice plan"))
	printKeyValue(w, "image", fmt.Sprintf("%dx%d", imageWidth, imageHeight))
	printKeyValue(w, "config", config)
	printKeyValue(w, "pages", strconv.Itoa(len(labels)))
	fmt.Fprintln(w, pageTable(labels))
}
