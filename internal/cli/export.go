package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/imgslice/internal/export"
	"github.com/piwi3910/imgslice/internal/importer"
	"github.com/piwi3910/imgslice/internal/session"
)

// exportOpts holds the flags for the export command. Companion outputs are
// only written when their path is set.
type exportOpts struct {
	slice    sliceOpts
	output   string
	quality  int
	tileMap  string
	manifest string
	dxf      string
}

// newExportCmd creates the export command.
//
// Default settings:
//   - output: the file name from config.json (output.pdf)
//   - quality: the JPEG quality from config.json (100)
func newExportCmd(root *rootOpts) *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [image]",
		Short: "Write one PDF page per slice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, &opts, args[0])
		},
	}
	opts.slice.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF path")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality of each page, 1-100")
	cmd.Flags().StringVar(&opts.tileMap, "tilemap", "", "also write a label sheet PDF with a QR code per page")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "also write a page manifest (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "also write the slice grid as a DXF drawing")
	return cmd
}

func runExport(cmd *cobra.Command, root *rootOpts, opts *exportOpts, input string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	app, presets, err := loadSettings(root.configDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("quality") {
		if opts.quality < 1 || opts.quality > 100 {
			return fmt.Errorf("quality must be between 1 and 100, got %d", opts.quality)
		}
		app.JPEGQuality = opts.quality
	}
	output := opts.output
	if output == "" {
		output = app.OutputFileName
	}

	prog := newProgress(logger)
	bmp, err := importer.LoadImage(input)
	if err != nil {
		return err
	}
	cfg, err := opts.slice.resolve(cmd, app, presets, bmp.Width(), bmp.Height())
	if err != nil {
		return err
	}

	s := session.New(app, logger)
	if err := s.Load(bmp, 0, 0); err != nil {
		return err
	}
	pages, err := s.Apply(cfg)
	if err != nil {
		return err
	}
	logger.Info("slicing image", "image", fmt.Sprintf("%dx%d", bmp.Width(), bmp.Height()), "config", cfg.String(), "pages", pages)

	r := export.NewRenderer(app.JPEGQuality)
	r.Logger = logger
	r.Progress = func(done, total int) {
		logger.Debug("page rendered", "page", done, "total", total)
	}
	report, err := s.Export(ctx, output, r)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d pages", report.Pages))

	regions := s.Regions()
	labels := export.CollectTileLabels(regions, bmp.Width(), cfg, filepath.Base(input))
	var written []string
	if opts.tileMap != "" {
		if err := export.WriteTileMap(opts.tileMap, labels); err != nil {
			return fmt.Errorf("write tile map: %w", err)
		}
		written = append(written, opts.tileMap)
	}
	if opts.manifest != "" {
		if err := export.WriteManifest(opts.manifest, labels); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		written = append(written, opts.manifest)
	}
	if opts.dxf != "" {
		if err := export.WriteGridDXF(opts.dxf, bmp.Width(), bmp.Height(), regions); err != nil {
			return fmt.Errorf("write dxf: %w", err)
		}
		written = append(written, opts.dxf)
	}

	printSuccess(out, "Exported %d pages", report.Pages)
	printFile(out, output)
	for _, path := range written {
		printFile(out, path)
	}
	for _, a := range report.Anomalies {
		printWarning(out, "skipped %s", a.Error())
	}
	if report.Clamped > 0 {
		printWarning(out, "%d slices were clipped to the image", report.Clamped)
	}
	return nil
}
