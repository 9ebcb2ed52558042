package session

import "math"

// Zoom limits and per-notch factors for wheel zoom.
const (
	MinScale = 0.5
	MaxScale = 5.0

	zoomOutFactor = 0.9
	zoomInFactor  = 1.1

	fitWidthRatio  = 0.9
	fitHeightRatio = 0.8
)

// Viewport is the preview's zoom and scroll state. BaseWidth and BaseHeight
// are the fitted display size of the image at scale 1. It has no effect on
// planning or export.
type Viewport struct {
	Scale      float64
	ScrollX    float64
	ScrollY    float64
	BaseWidth  float64
	BaseHeight float64
}

// FitViewport sizes an image of imageWidth x imageHeight for a container.
// Images wider in aspect than the container fill 90% of its width, others
// 80% of its height. The view starts centred at scale 1.
func FitViewport(imageWidth, imageHeight int, containerWidth, containerHeight float64) Viewport {
	v := Viewport{Scale: 1}
	if imageWidth <= 0 || imageHeight <= 0 || containerWidth <= 0 || containerHeight <= 0 {
		v.BaseWidth, v.BaseHeight = float64(imageWidth), float64(imageHeight)
		return v
	}
	imgAspect := float64(imageWidth) / float64(imageHeight)
	containerAspect := containerWidth / containerHeight
	if imgAspect > containerAspect {
		v.BaseWidth = containerWidth * fitWidthRatio
		v.BaseHeight = v.BaseWidth / imgAspect
	} else {
		v.BaseHeight = containerHeight * fitHeightRatio
		v.BaseWidth = v.BaseHeight * imgAspect
	}
	wrapperW := math.Max(containerWidth, v.BaseWidth)
	wrapperH := math.Max(containerHeight, v.BaseHeight)
	v.ScrollX = (wrapperW*v.Scale - containerWidth) / 2
	v.ScrollY = (wrapperH*v.Scale - containerHeight) / 2
	return v
}

// Zoom applies one wheel step. A positive deltaY zooms out; any other
// value, zero included, zooms in. The content point under (mouseX, mouseY)
// stays under the cursor.
func (v *Viewport) Zoom(deltaY, mouseX, mouseY float64) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	factor := zoomInFactor
	if deltaY > 0 {
		factor = zoomOutFactor
	}
	old := v.Scale
	v.Scale = math.Min(math.Max(MinScale, old*factor), MaxScale)

	ratio := v.Scale / old
	v.ScrollX = (v.ScrollX+mouseX)*ratio - mouseX
	v.ScrollY = (v.ScrollY+mouseY)*ratio - mouseY
}

// Pan moves the view by a drag of (dx, dy) display pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.ScrollX -= dx
	v.ScrollY -= dy
}

// DisplaySize returns the on-screen image size at the current scale.
func (v Viewport) DisplaySize() (width, height float64) {
	return v.BaseWidth * v.Scale, v.BaseHeight * v.Scale
}
