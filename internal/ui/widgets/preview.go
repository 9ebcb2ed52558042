package widgets

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/imgslice/internal/engine"
	"github.com/piwi3910/imgslice/internal/session"
)

// Overlay colors, cycled per page so neighbouring slices stay distinct.
var overlayColors = []color.NRGBA{
	{R: 244, G: 67, B: 54, A: 255},  // red
	{R: 33, G: 150, B: 243, A: 255}, // blue
	{R: 76, G: 175, B: 80, A: 255},  // green
	{R: 255, G: 152, B: 0, A: 255},  // orange
	{R: 156, G: 39, B: 176, A: 255}, // purple
	{R: 0, G: 188, B: 212, A: 255},  // cyan
}

// PreviewSource supplies the viewport and overlay the preview draws, and
// receives zoom and pan gestures. *session.Session implements it.
type PreviewSource interface {
	Viewport() session.Viewport
	Zoom(deltaY, mouseX, mouseY float64) session.Viewport
	Pan(dx, dy float64) session.Viewport
	Overlay() []engine.OverlayRect
}

// Preview shows the loaded image with one outlined rectangle per page.
// The mouse wheel zooms around the cursor and dragging pans.
type Preview struct {
	widget.BaseWidget
	source PreviewSource
	image  image.Image
}

// NewPreview creates an empty preview driven by source.
func NewPreview(source PreviewSource) *Preview {
	p := &Preview{source: source}
	p.ExtendBaseWidget(p)
	return p
}

// SetImage replaces the displayed image. It may be a reduced copy of the
// source bitmap; the viewport decides the on-screen size.
func (p *Preview) SetImage(img image.Image) {
	p.image = img
	p.Refresh()
}

// Scrolled zooms in on wheel-up and out on wheel-down. Purely horizontal
// scrolls carry no vertical delta and are ignored.
func (p *Preview) Scrolled(ev *fyne.ScrollEvent) {
	if p.image == nil || ev.Scrolled.DY == 0 {
		return
	}
	p.source.Zoom(float64(-ev.Scrolled.DY), float64(ev.Position.X), float64(ev.Position.Y))
	p.Refresh()
}

// Dragged pans the view.
func (p *Preview) Dragged(ev *fyne.DragEvent) {
	if p.image == nil {
		return
	}
	p.source.Pan(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	p.Refresh()
}

// DragEnd implements fyne.Draggable.
func (p *Preview) DragEnd() {}

// CreateRenderer implements fyne.Widget.
func (p *Preview) CreateRenderer() fyne.WidgetRenderer {
	r := &previewRenderer{
		p:          p,
		background: canvas.NewRectangle(color.NRGBA{R: 60, G: 60, B: 60, A: 255}),
		raster:     canvas.NewImageFromImage(nil),
	}
	r.raster.FillMode = canvas.ImageFillStretch
	r.raster.ScaleMode = canvas.ImageScaleFastest
	r.rebuild()
	return r
}

type previewRenderer struct {
	p          *Preview
	background *canvas.Rectangle
	raster     *canvas.Image
	size       fyne.Size
	objects    []fyne.CanvasObject
}

func (r *previewRenderer) rebuild() {
	r.objects = []fyne.CanvasObject{r.background}
	r.background.Resize(r.size)
	if r.p.image == nil {
		hint := canvas.NewText("Open an image to start", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		hint.Move(fyne.NewPos(12, 12))
		r.objects = append(r.objects, hint)
		return
	}

	vp := r.p.source.Viewport()
	scale := float32(vp.Scale)
	offX, offY := float32(-vp.ScrollX), float32(-vp.ScrollY)
	dispW, dispH := vp.DisplaySize()

	if r.raster.Image != r.p.image {
		r.raster.Image = r.p.image
		r.raster.Refresh()
	}
	r.raster.Resize(fyne.NewSize(float32(dispW), float32(dispH)))
	r.raster.Move(fyne.NewPos(offX, offY))
	r.objects = append(r.objects, r.raster)

	for _, o := range r.p.source.Overlay() {
		col := overlayColors[(o.Page-1)%len(overlayColors)]
		x, y := o.X*scale+offX, o.Y*scale+offY
		w, h := o.Width*scale, o.Height*scale

		outline := canvas.NewRectangle(color.Transparent)
		outline.StrokeColor = col
		outline.StrokeWidth = 2
		outline.Resize(fyne.NewSize(w, h))
		outline.Move(fyne.NewPos(x, y))
		r.objects = append(r.objects, outline)

		if w > 30 && h > 16 {
			label := canvas.NewText(fmt.Sprintf("%d", o.Page), col)
			label.TextSize = 12
			label.TextStyle = fyne.TextStyle{Bold: true}
			label.Move(fyne.NewPos(x+4, y+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *previewRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
}

func (r *previewRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.p)
}

func (r *previewRenderer) Destroy()                     {}
func (r *previewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *previewRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }
