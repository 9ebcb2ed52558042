// Package ui implements the imgslice desktop window: image preview with a
// live slice overlay, the slice configuration form and PDF export.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/imgslice/internal/export"
	"github.com/piwi3910/imgslice/internal/importer"
	"github.com/piwi3910/imgslice/internal/model"
	"github.com/piwi3910/imgslice/internal/project"
	"github.com/piwi3910/imgslice/internal/session"
	"github.com/piwi3910/imgslice/internal/ui/widgets"
)

// previewMaxSize bounds the reduced copy of the image shown on screen.
const previewMaxSize = 4096

// App holds all application state and UI references.
type App struct {
	app         fyne.App
	window      fyne.Window
	session     *session.Session
	config      model.AppConfig
	presets     model.PresetStore
	history     *History
	logger      *log.Logger
	configPath  string
	presetsPath string
	saveDir     string

	cancelExport context.CancelFunc

	// UI references for dynamic updates
	preview           *widgets.Preview
	previewArea       *container.Scroll
	widthEntry        *widget.Entry
	heightEntry       *widget.Entry
	orientationSelect *widget.Select
	presetSelect      *widget.Select
	openButton        *widget.Button
	applyButton       *widget.Button
	exportButton      *widget.Button
	cancelButton      *widget.Button
	progress          *widget.ProgressBar
	status            *widget.Label
}

// NewApp creates the application state, loading config and presets from
// the default locations. Unreadable files fall back to defaults.
func NewApp(application fyne.App, window fyne.Window) *App {
	logger := log.Default().WithPrefix("imgslice")
	a := &App{
		app:         application,
		window:      window,
		history:     NewHistory(),
		logger:      logger,
		configPath:  project.DefaultConfigPath(),
		presetsPath: project.DefaultPresetsPath(),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		logger.Warn("using default config", "path", a.configPath, "err", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	presets, err := project.LoadPresets(a.presetsPath)
	if err != nil {
		logger.Warn("ignoring saved presets", "path", a.presetsPath, "err", err)
		presets = model.NewPresetStore()
	}
	a.presets = presets

	a.session = session.New(cfg, logger)
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range a.config.RecentImages {
		recentItems = append(recentItems, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openPath(path)
		}))
	}
	if len(recentItems) == 0 {
		empty := fyne.NewMenuItem("No recent images", nil)
		empty.Disabled = true
		recentItems = append(recentItems, empty)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", a.openImage),
		recent,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export Tile Map...", a.exportTileMap),
		fyne.NewMenuItem("Export Manifest...", a.exportManifest),
		fyne.NewMenuItem("Export Grid DXF...", a.exportDXF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Apply", a.undo),
		fyne.NewMenuItem("Redo Apply", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Settings as Preset...", a.savePreset),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { a.zoomStep(-1) }),
		fyne.NewMenuItem("Zoom Out", func() { a.zoomStep(1) }),
		fyne.NewMenuItem("Fit to Window", a.fit),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About imgslice",
		"imgslice: image to PDF slicer\n\n"+
			"Cuts a large image into fixed-size slices and\n"+
			"writes one slice per PDF page at 1:1 scale.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.preview = widgets.NewPreview(a.session)
	a.previewArea = container.NewScroll(a.preview)
	a.previewArea.Direction = container.ScrollNone

	return container.NewBorder(a.buildToolbar(), a.buildStatusBar(), a.buildSettingsPanel(), nil, a.previewArea)
}

// ─── Layout ────────────────────────────────────────────────

func (a *App) buildToolbar() fyne.CanvasObject {
	a.openButton = widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), a.openImage)
	return container.NewHBox(
		a.openButton,
		widget.NewSeparator(),
		toolbarButton(theme.ZoomInIcon(), "Zoom in", func() { a.zoomStep(-1) }),
		toolbarButton(theme.ZoomOutIcon(), "Zoom out", func() { a.zoomStep(1) }),
		toolbarButton(theme.ZoomFitIcon(), "Fit image to window", a.fit),
	)
}

// toolbarButton creates an icon-only button with a hover tooltip.
func toolbarButton(icon fyne.Resource, tip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tip)
	return btn
}

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.widthEntry = widget.NewEntry()
	a.widthEntry.Validator = positiveInt
	a.heightEntry = widget.NewEntry()
	a.heightEntry.Validator = positiveInt
	a.orientationSelect = widget.NewSelect(
		[]string{model.OrientationHorizontal.String(), model.OrientationVertical.String()}, nil)
	a.presetSelect = widget.NewSelect(a.presets.Names(), a.selectPreset)
	a.presetSelect.PlaceHolder = "Choose a preset"

	a.setEntries(a.session.Proposed())

	a.applyButton = widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), a.applyConfig)
	a.applyButton.Importance = widget.HighImportance
	a.exportButton = widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), a.exportPDF)
	a.cancelButton = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		if a.cancelExport != nil {
			a.cancelExport()
		}
	})
	a.cancelButton.Hide()
	a.progress = widget.NewProgressBar()
	a.progress.Hide()

	form := widget.NewForm(
		widget.NewFormItem("Preset", a.presetSelect),
		widget.NewFormItem("Width (px)", a.widthEntry),
		widget.NewFormItem("Height (px)", a.heightEntry),
		widget.NewFormItem("Orientation", a.orientationSelect),
	)

	heading := widget.NewLabel("Slice Settings")
	heading.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewVBox(
		heading,
		form,
		a.applyButton,
		widget.NewSeparator(),
		a.exportButton,
		a.progress,
		a.cancelButton,
	)
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.status = widget.NewLabel("No image loaded")
	return a.status
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

// ─── Image ─────────────────────────────────────────────────

func (a *App) openImage() {
	if a.session.Exporting() {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		bmp, err := importer.DecodeImage(reader, reader.URI().Name())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		bmp.Path = reader.URI().Path()
		a.loadBitmap(bmp)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(importer.SupportedExtensions))
	d.Show()
}

func (a *App) openPath(path string) {
	if a.session.Exporting() {
		return
	}
	bmp, err := importer.LoadImage(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.loadBitmap(bmp)
}

// loadBitmap replaces the session image and proposes a configuration sized
// to it. Nothing is applied until the user confirms.
func (a *App) loadBitmap(bmp *model.Bitmap) {
	size := a.previewArea.Size()
	if err := a.session.Load(bmp, float64(size.Width), float64(size.Height)); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.history.Clear()
	a.preview.SetImage(importer.Thumbnail(bmp.Image, previewMaxSize, previewMaxSize))
	a.setEntries(a.session.Proposed())
	a.status.SetText(fmt.Sprintf("%s: %dx%d px. Adjust the slice size and press Apply.",
		filepath.Base(bmp.Path), bmp.Width(), bmp.Height()))

	if bmp.Path != "" {
		a.config.AddRecent(bmp.Path)
		a.saveConfig()
		a.SetupMenus()
	}
}

func (a *App) zoomStep(deltaY float64) {
	size := a.previewArea.Size()
	a.session.Zoom(deltaY, float64(size.Width/2), float64(size.Height/2))
	a.preview.Refresh()
}

func (a *App) fit() {
	size := a.previewArea.Size()
	a.session.Fit(float64(size.Width), float64(size.Height))
	a.preview.Refresh()
}

// ─── Configuration ─────────────────────────────────────────

func (a *App) setEntries(cfg model.PartitionConfig) {
	if cfg.SliceWidth > 0 {
		a.widthEntry.SetText(strconv.Itoa(cfg.SliceWidth))
	}
	if cfg.SliceHeight > 0 {
		a.heightEntry.SetText(strconv.Itoa(cfg.SliceHeight))
	}
	orientation := cfg.Orientation
	if !orientation.Valid() {
		orientation = a.config.DefaultOrientation
	}
	a.orientationSelect.SetSelected(orientation.String())
}

func (a *App) selectPreset(name string) {
	p := a.presets.FindByName(name)
	if p == nil {
		return
	}
	a.setEntries(p.Config)
}

// applyConfig parses the form and applies it atomically. A rejected
// configuration leaves the preview and the previous settings unchanged.
func (a *App) applyConfig() {
	cfg, err := model.ParseConfig(a.widthEntry.Text, a.heightEntry.Text, a.orientationSelect.Selected)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	prev := a.session.Config()
	if err := a.apply(cfg); err != nil {
		return
	}
	if !prev.IsZero() && prev != cfg {
		a.history.Push(MakeSnapshot(prev, "Apply "+cfg.String()))
	}
}

func (a *App) apply(cfg model.PartitionConfig) error {
	pages, err := a.session.Apply(cfg)
	if err != nil {
		var pce *model.PageCountError
		if errors.As(err, &pce) {
			dialog.ShowInformation("Too Many Pages", pce.Error(), a.window)
		} else {
			dialog.ShowError(err, a.window)
		}
		return err
	}
	a.setEntries(cfg)
	a.preview.Refresh()

	bmp := a.session.Bitmap()
	msg := fmt.Sprintf("%dx%d px image, %s: %d pages", bmp.Width(), bmp.Height(), cfg, pages)
	if cfg.ClipsWidth(bmp.Width()) {
		msg += fmt.Sprintf(" (vertical slices are %d px wide, image is %d px)", cfg.SliceWidth, bmp.Width())
	}
	a.status.SetText(msg)
	return nil
}

func (a *App) undo() {
	if a.session.Exporting() {
		return
	}
	current := MakeSnapshot(a.session.Config(), "")
	if s, ok := a.history.Undo(current); ok {
		if err := a.apply(s.Config); err != nil {
			a.history.Redo(s)
		}
	}
}

func (a *App) redo() {
	if a.session.Exporting() {
		return
	}
	current := MakeSnapshot(a.session.Config(), "")
	if s, ok := a.history.Redo(current); ok {
		if err := a.apply(s.Config); err != nil {
			a.history.Undo(s)
		}
	}
}

func (a *App) savePreset() {
	cfg, err := model.ParseConfig(a.widthEntry.Text, a.heightEntry.Text, a.orientationSelect.Selected)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder(cfg.String())
	descEntry := widget.NewEntry()

	dialog.ShowForm("Save Preset", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Description", descEntry),
	}, func(ok bool) {
		if !ok {
			return
		}
		name := nameEntry.Text
		if name == "" {
			name = cfg.String()
		}
		p, err := model.NewSlicePreset(name, descEntry.Text, cfg)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.presets.Add(p)
		if err := project.SavePresets(a.presetsPath, a.presets); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
			return
		}
		a.presetSelect.SetOptions(a.presets.Names())
		a.presetSelect.SetSelected(name)
	}, a.window)
}

func (a *App) saveConfig() {
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Warn("failed to save config", "path", a.configPath, "err", err)
	}
}

// ─── Export ────────────────────────────────────────────────

// requireRegions reports whether an applied configuration exists, showing
// an error if not.
func (a *App) requireRegions() bool {
	if len(a.session.Regions()) > 0 {
		return true
	}
	dialog.ShowError(fmt.Errorf("%w: open an image and apply a slice size first", model.ErrMissingInput), a.window)
	return false
}

func (a *App) exportPDF() {
	if a.session.Exporting() || !a.requireRegions() {
		return
	}
	a.askSavePath("Export PDF", a.config.OutputFileName, []string{".pdf"}, a.startExport)
}

// askSavePath asks for a folder and a file name and hands the resulting path
// to onPath, confirming first when the file exists. Nothing is created or
// truncated here; the writers replace the target only once their output is
// complete.
func (a *App) askSavePath(title, defaultName string, exts []string, onPath func(path string)) {
	dir := a.defaultSaveDir()
	dirLabel := widget.NewLabel(dir)
	dirLabel.Truncation = fyne.TextTruncateEllipsis
	browse := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		fd := dialog.NewFolderOpen(func(l fyne.ListableURI, err error) {
			if err != nil || l == nil {
				return
			}
			dir = l.Path()
			dirLabel.SetText(dir)
		}, a.window)
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
		fd.Show()
	})
	nameEntry := widget.NewEntry()
	nameEntry.SetText(defaultName)

	dialog.ShowForm(title, "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, browse, dirLabel)),
		widget.NewFormItem("File name", nameEntry),
	}, func(ok bool) {
		if !ok {
			return
		}
		path, err := savePath(dir, nameEntry.Text, exts)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.saveDir = dir
		if _, err := os.Stat(path); err == nil {
			dialog.ShowConfirm("Replace File?",
				fmt.Sprintf("%s already exists. Replace it?", filepath.Base(path)),
				func(replace bool) {
					if replace {
						onPath(path)
					}
				}, a.window)
			return
		}
		onPath(path)
	}, a.window)
}

// defaultSaveDir is the last folder saved to, else the folder of the loaded
// image, else the home directory.
func (a *App) defaultSaveDir() string {
	if a.saveDir != "" {
		return a.saveDir
	}
	if bmp := a.session.Bitmap(); bmp != nil && bmp.Path != "" {
		return filepath.Dir(bmp.Path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// savePath joins dir and a bare file name, adding exts[0] when the name has
// none of the accepted extensions.
func savePath(dir, name string, exts []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", errors.New("enter a file name")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("file name %q must not contain a folder", name)
	}
	if len(exts) > 0 && !slices.Contains(exts, strings.ToLower(filepath.Ext(name))) {
		name += exts[0]
	}
	return filepath.Join(dir, name), nil
}

// startExport renders in the background. Open, apply and export stay
// disabled until it finishes; the document only appears on success.
func (a *App) startExport(path string) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelExport = cancel
	a.setExporting(true)

	r := export.NewRenderer(a.config.JPEGQuality)
	r.Logger = a.logger
	r.Progress = func(done, total int) {
		fyne.Do(func() {
			a.progress.SetValue(float64(done) / float64(total))
		})
	}

	go func() {
		report, err := a.session.Export(ctx, path, r)
		fyne.Do(func() {
			cancel()
			a.cancelExport = nil
			a.setExporting(false)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					a.status.SetText("Export cancelled")
					return
				}
				dialog.ShowError(err, a.window)
				return
			}
			msg := fmt.Sprintf("Exported %d pages to %s", report.Pages, filepath.Base(path))
			if n := len(report.Anomalies); n > 0 {
				msg += fmt.Sprintf("\n%d pages could not be cropped and were skipped.", n)
			}
			a.status.SetText(fmt.Sprintf("Exported %d pages", report.Pages))
			dialog.ShowInformation("Export Complete", msg, a.window)
		})
	}()
}

func (a *App) setExporting(running bool) {
	if running {
		a.progress.SetValue(0)
		a.progress.Show()
		a.cancelButton.Show()
		a.openButton.Disable()
		a.applyButton.Disable()
		a.exportButton.Disable()
		a.presetSelect.Disable()
		a.status.SetText("Exporting...")
		return
	}
	a.progress.Hide()
	a.cancelButton.Hide()
	a.openButton.Enable()
	a.applyButton.Enable()
	a.exportButton.Enable()
	a.presetSelect.Enable()
}

// saveCompanion asks for a path and writes a companion output for the
// applied regions.
func (a *App) saveCompanion(title, defaultName string, exts []string, write func(path string, bmp *model.Bitmap, cfg model.PartitionConfig, regions []model.Region) error) {
	if !a.requireRegions() {
		return
	}
	a.askSavePath(title, defaultName, exts, func(path string) {
		bmp := a.session.Bitmap()
		if err := write(path, bmp, a.session.Config(), a.session.Regions()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", title, path), a.window)
	})
}

func (a *App) exportTileMap() {
	a.saveCompanion("Tile map", "tilemap.pdf", []string{".pdf"},
		func(path string, bmp *model.Bitmap, cfg model.PartitionConfig, regions []model.Region) error {
			labels := export.CollectTileLabels(regions, bmp.Width(), cfg, filepath.Base(bmp.Path))
			return export.WriteTileMap(path, labels)
		})
}

func (a *App) exportManifest() {
	a.saveCompanion("Manifest", "pages.xlsx", []string{".xlsx", ".csv"},
		func(path string, bmp *model.Bitmap, cfg model.PartitionConfig, regions []model.Region) error {
			labels := export.CollectTileLabels(regions, bmp.Width(), cfg, filepath.Base(bmp.Path))
			return export.WriteManifest(path, labels)
		})
}

func (a *App) exportDXF() {
	a.saveCompanion("Grid drawing", "grid.dxf", []string{".dxf"},
		func(path string, bmp *model.Bitmap, _ model.PartitionConfig, regions []model.Region) error {
			return export.WriteGridDXF(path, bmp.Width(), bmp.Height(), regions)
		})
}
