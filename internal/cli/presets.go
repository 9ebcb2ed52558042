package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/imgslice/internal/model"
	"github.com/piwi3910/imgslice/internal/project"
)

// newPresetsCmd creates the presets command with list, save and remove
// subcommands. Running it bare lists presets.
func newPresetsCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage slice presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsList(cmd, root)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsList(cmd, root)
		},
	})
	cmd.AddCommand(newPresetsSaveCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsRemove(cmd, root, args[0])
		},
	})
	return cmd
}

func newPresetsSaveCmd(root *rootOpts) *cobra.Command {
	var (
		width, height int
		orientation   string
		description   string
	)
	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save a slice configuration as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := model.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			cfg := model.PartitionConfig{SliceWidth: width, SliceHeight: height, Orientation: o}
			return runPresetsSave(cmd, root, args[0], description, cfg)
		},
	}
	cmd.Flags().IntVar(&width, "width", model.DefaultSliceWidth, "slice width in pixels")
	cmd.Flags().IntVar(&height, "height", model.DefaultSliceHeight, "slice height in pixels")
	cmd.Flags().StringVar(&orientation, "orientation", string(model.OrientationHorizontal), "horizontal or vertical")
	cmd.Flags().StringVarP(&description, "description", "d", "", "preset description")
	return cmd
}

func runPresetsList(cmd *cobra.Command, root *rootOpts) error {
	_, presets, err := loadSettings(root.configDir)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(presets.All()))
	for _, p := range presets.All() {
		kind := "saved"
		if p.BuiltIn {
			kind = "built-in"
		}
		rows = append(rows, []string{p.Name, fmt.Sprintf("%dx%d", p.Config.SliceWidth, p.Config.SliceHeight), string(p.Config.Orientation), kind})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleDim).
		Headers("NAME", "SIZE", "ORIENTATION", "KIND").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}

func runPresetsSave(cmd *cobra.Command, root *rootOpts, name, description string, cfg model.PartitionConfig) error {
	_, presets, err := loadSettings(root.configDir)
	if err != nil {
		return err
	}
	p, err := model.NewSlicePreset(name, description, cfg)
	if err != nil {
		return err
	}
	presets.Add(p)
	if err := project.SavePresets(filepath.Join(root.configDir, "presets.json"), presets); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	loggerFromContext(cmd.Context()).Debug("preset saved", "name", name, "config", cfg.String())
	printSuccess(cmd.OutOrStdout(), "Saved preset %q (%s)", name, cfg)
	return nil
}

func runPresetsRemove(cmd *cobra.Command, root *rootOpts, name string) error {
	_, presets, err := loadSettings(root.configDir)
	if err != nil {
		return err
	}
	var id string
	for _, p := range presets.Presets {
		if p.Name == name {
			id = p.ID
			break
		}
	}
	if id == "" || !presets.Remove(id) {
		return fmt.Errorf("no saved preset named %q", name)
	}
	if err := project.SavePresets(filepath.Join(root.configDir, "presets.json"), presets); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Removed preset %q", name)
	return nil
}
