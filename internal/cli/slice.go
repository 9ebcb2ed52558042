package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/imgslice/internal/model"
	"github.com/piwi3910/imgslice/internal/project"
)

// sliceOpts holds the flags that select a partition configuration.
type sliceOpts struct {
	width       int
	height      int
	orientation string
	preset      string
}

func (o *sliceOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.width, "width", 0, "slice width in pixels (default from config, capped at the image width)")
	cmd.Flags().IntVar(&o.height, "height", 0, "slice height in pixels (default from config, capped at the image height)")
	cmd.Flags().StringVar(&o.orientation, "orientation", "", "horizontal (grid) or vertical (bands)")
	cmd.Flags().StringVarP(&o.preset, "preset", "p", "", "start from a saved or built-in preset")
}

// resolve builds the configuration for an image: config defaults, then the
// preset, then any flags the user set explicitly.
func (o *sliceOpts) resolve(cmd *cobra.Command, app model.AppConfig, presets model.PresetStore, imageWidth, imageHeight int) (model.PartitionConfig, error) {
	cfg := app.ProposeConfig(imageWidth, imageHeight)
	if o.preset != "" {
		p := presets.FindByName(o.preset)
		if p == nil {
			return model.PartitionConfig{}, fmt.Errorf("unknown preset %q", o.preset)
		}
		cfg = p.Config
	}
	if cmd.Flags().Changed("width") {
		cfg.SliceWidth = o.width
	}
	if cmd.Flags().Changed("height") {
		cfg.SliceHeight = o.height
	}
	if cmd.Flags().Changed("orientation") {
		orientation, err := model.ParseOrientation(o.orientation)
		if err != nil {
			return model.PartitionConfig{}, err
		}
		cfg.Orientation = orientation
	}
	if err := cfg.Validate(); err != nil {
		return model.PartitionConfig{}, err
	}
	return cfg, nil
}

// loadSettings reads the application config and presets from dir.
func loadSettings(dir string) (model.AppConfig, model.PresetStore, error) {
	app, err := project.LoadAppConfig(filepath.Join(dir, "config.json"))
	if err != nil {
		return model.AppConfig{}, model.PresetStore{}, fmt.Errorf("load config: %w", err)
	}
	presets, err := project.LoadPresets(filepath.Join(dir, "presets.json"))
	if err != nil {
		return model.AppConfig{}, model.PresetStore{}, fmt.Errorf("load presets: %w", err)
	}
	return app, presets, nil
}
