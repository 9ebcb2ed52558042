package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/imgslice/internal/model"
)

// Planner partitions an image into page regions for one configuration.
type Planner struct {
	Config model.PartitionConfig
}

// New returns a planner for cfg.
func New(cfg model.PartitionConfig) *Planner {
	return &Planner{Config: cfg}
}

// Count returns the number of pages the configuration produces for an
// image of the given size, without generating any region.
func (p *Planner) Count(imageWidth, imageHeight int) (int, error) {
	if err := checkInputs(imageWidth, imageHeight, p.Config); err != nil {
		return 0, err
	}
	return pageCount(imageWidth, imageHeight, p.Config), nil
}

// Check is the validation gate run before a configuration is accepted or
// rendered. It returns the page count, or a *model.PageCountError when the
// count exceeds model.MaxPages.
func (p *Planner) Check(imageWidth, imageHeight int) (int, error) {
	n, err := p.Count(imageWidth, imageHeight)
	if err != nil {
		return 0, err
	}
	if n > model.MaxPages {
		return n, &model.PageCountError{Count: n, Max: model.MaxPages}
	}
	return n, nil
}

// Plan generates the ordered regions: top to bottom, and left to right
// within a row. Generation stops after model.MaxPages regions whatever the
// configuration; callers are expected to run Check first.
func (p *Planner) Plan(imageWidth, imageHeight int) ([]model.Region, error) {
	if err := checkInputs(imageWidth, imageHeight, p.Config); err != nil {
		return nil, err
	}
	sw, sh := p.Config.SliceWidth, p.Config.SliceHeight

	regions := make([]model.Region, 0, min(pageCount(imageWidth, imageHeight, p.Config), model.MaxPages))
	x, y := 0, 0
	for y < imageHeight && len(regions) < model.MaxPages {
		h := min(sh, imageHeight-y)
		if p.Config.Orientation == model.OrientationVertical {
			// Bands keep the configured width even when it differs from the image width.
			regions = append(regions, model.Region{X: 0, Y: y, Width: sw, Height: h})
			y += sh
			continue
		}
		regions = append(regions, model.Region{X: x, Y: y, Width: min(sw, imageWidth-x), Height: h})
		x += sw
		if x >= imageWidth {
			x = 0
			y += sh
		}
	}
	return regions, nil
}

// PageCount is the closed-form page count for a configuration.
func PageCount(imageWidth, imageHeight int, cfg model.PartitionConfig) (int, error) {
	return New(cfg).Count(imageWidth, imageHeight)
}

// Plan validates the configuration against the page limit and generates
// its regions.
func Plan(imageWidth, imageHeight int, cfg model.PartitionConfig) ([]model.Region, error) {
	p := New(cfg)
	if _, err := p.Check(imageWidth, imageHeight); err != nil {
		return nil, err
	}
	return p.Plan(imageWidth, imageHeight)
}

func checkInputs(imageWidth, imageHeight int, cfg model.PartitionConfig) error {
	if imageWidth <= 0 || imageHeight <= 0 {
		return fmt.Errorf("%w: image size %dx%d must be positive", model.ErrInvalidConfig, imageWidth, imageHeight)
	}
	return cfg.Validate()
}

func pageCount(imageWidth, imageHeight int, cfg model.PartitionConfig) int {
	rows := ceilDiv(imageHeight, cfg.SliceHeight)
	if cfg.Orientation == model.OrientationVertical {
		return rows
	}
	cols := ceilDiv(imageWidth, cfg.SliceWidth)
	if rows > math.MaxInt/cols {
		return math.MaxInt
	}
	return cols * rows
}

// ceilDiv divides rounding up without overflowing for b near math.MaxInt.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}
