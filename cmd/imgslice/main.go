// imgslice: image to PDF slicer
//
// A cross-platform desktop application that previews a large image with a
// live slice grid and exports one slice per PDF page.
//
// Build:
//   go build -o imgslice ./cmd/imgslice
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/imgslice/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.imgslice")
	application.Settings().SetTheme(ui.NewTheme())
	window := application.NewWindow("imgslice")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
