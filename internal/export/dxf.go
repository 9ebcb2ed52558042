package export

import (
	"fmt"
	"io"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/imgslice/internal/model"
)

// DXF layer names.
const (
	LayerImage   = "IMAGE"
	LayerRegions = "REGIONS"
)

// WriteGridDXF writes the image border and one rectangle per region as DXF
// lines, in pixel units. The y axis is flipped so the drawing matches the
// image when viewed in a y-up CAD tool.
func WriteGridDXF(path string, imageWidth, imageHeight int, regions []model.Region) error {
	if imageWidth <= 0 || imageHeight <= 0 || len(regions) == 0 {
		return model.ErrMissingInput
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerImage, color.Blue, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(LayerRegions, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}

	h := float64(imageHeight)
	rect := func(x, y, w, ht float64) error {
		x0, y0 := x, h-y
		x1, y1 := x+w, h-y-ht
		edges := [4][4]float64{
			{x0, y0, x1, y0},
			{x1, y0, x1, y1},
			{x1, y1, x0, y1},
			{x0, y1, x0, y0},
		}
		for _, e := range edges {
			if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
				return err
			}
		}
		return nil
	}

	if err := d.ChangeLayer(LayerImage); err != nil {
		return err
	}
	if err := rect(0, 0, float64(imageWidth), h); err != nil {
		return fmt.Errorf("failed to draw image border: %w", err)
	}

	if err := d.ChangeLayer(LayerRegions); err != nil {
		return err
	}
	for i, r := range regions {
		if err := rect(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height)); err != nil {
			return fmt.Errorf("failed to draw region %d: %w", i+1, err)
		}
	}

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := d.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
