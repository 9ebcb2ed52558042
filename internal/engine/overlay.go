package engine

import "github.com/piwi3910/imgslice/internal/model"

// OverlayRect is a region projected into display coordinates.
type OverlayRect struct {
	Page   int
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Overlay projects regions from image pixels onto an image displayed at
// displayWidth x displayHeight. Each axis is scaled independently.
func Overlay(regions []model.Region, imageWidth, imageHeight int, displayWidth, displayHeight float32) []OverlayRect {
	if imageWidth <= 0 || imageHeight <= 0 || len(regions) == 0 {
		return nil
	}
	sx := displayWidth / float32(imageWidth)
	sy := displayHeight / float32(imageHeight)

	rects := make([]OverlayRect, len(regions))
	for i, r := range regions {
		rects[i] = OverlayRect{
			Page:   i + 1,
			X:      float32(r.X) * sx,
			Y:      float32(r.Y) * sy,
			Width:  float32(r.Width) * sx,
			Height: float32(r.Height) * sy,
		}
	}
	return rects
}

// GridPosition returns the zero-based row and column of page index i
// (zero-based) for an image of the given width.
func GridPosition(i, imageWidth int, cfg model.PartitionConfig) (row, col int) {
	if cfg.Orientation == model.OrientationVertical || cfg.SliceWidth <= 0 {
		return i, 0
	}
	cols := ceilDiv(imageWidth, cfg.SliceWidth)
	return i / cols, i % cols
}
