package model

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxPages is the hard limit on the number of pages a partition may produce.
const MaxPages = 1000

// Default slice dimensions proposed when an image is loaded.
const (
	DefaultSliceWidth  = 1920
	DefaultSliceHeight = 1000
)

// Orientation selects how an image is partitioned.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal" // Row-major grid of tiles
	OrientationVertical   Orientation = "vertical"   // Single column of height bands
)

// String returns the label shown in the UI.
func (o Orientation) String() string {
	switch o {
	case OrientationVertical:
		return "Vertical"
	default:
		return "Horizontal"
	}
}

// Valid reports whether o is one of the known orientations.
func (o Orientation) Valid() bool {
	return o == OrientationHorizontal || o == OrientationVertical
}

// ParseOrientation accepts "horizontal" or "vertical" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case OrientationHorizontal:
		return OrientationHorizontal, nil
	case OrientationVertical:
		return OrientationVertical, nil
	}
	return "", fmt.Errorf("%w: unknown orientation %q", ErrInvalidConfig, s)
}

// PageOrientation is the tag attached to exported pages.
type PageOrientation string

const (
	PageLandscape PageOrientation = "L"
	PagePortrait  PageOrientation = "P"
)

// PageOrientation maps a partition orientation to the page tag used on export.
func (o Orientation) PageOrientation() PageOrientation {
	if o == OrientationVertical {
		return PagePortrait
	}
	return PageLandscape
}

// PartitionConfig is the confirmed slicing configuration.
type PartitionConfig struct {
	SliceWidth  int         `json:"slice_width"`
	SliceHeight int         `json:"slice_height"`
	Orientation Orientation `json:"orientation"`
}

// Validate checks the slice dimensions and orientation.
func (c PartitionConfig) Validate() error {
	if c.SliceWidth <= 0 || c.SliceHeight <= 0 {
		return fmt.Errorf("%w: slice size %dx%d must be positive", ErrInvalidConfig, c.SliceWidth, c.SliceHeight)
	}
	if !c.Orientation.Valid() {
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalidConfig, c.Orientation)
	}
	return nil
}

// IsZero reports whether no configuration has been applied yet.
func (c PartitionConfig) IsZero() bool {
	return c.SliceWidth == 0 && c.SliceHeight == 0
}

// ClipsWidth reports whether a vertical partition of an image imageWidth
// pixels wide would not span it exactly. Vertical bands are sliceWidth wide
// regardless of the image width.
func (c PartitionConfig) ClipsWidth(imageWidth int) bool {
	return c.Orientation == OrientationVertical && c.SliceWidth != imageWidth
}

// String formats the config as "WxH orientation".
func (c PartitionConfig) String() string {
	return fmt.Sprintf("%dx%d %s", c.SliceWidth, c.SliceHeight, c.Orientation)
}

// ParseConfig builds a PartitionConfig from user-entered text. Nothing is
// returned unless every field is valid.
func ParseConfig(width, height, orientation string) (PartitionConfig, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return PartitionConfig{}, fmt.Errorf("%w: width %q is not a number", ErrInvalidConfig, width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil {
		return PartitionConfig{}, fmt.Errorf("%w: height %q is not a number", ErrInvalidConfig, height)
	}
	o, err := ParseOrientation(orientation)
	if err != nil {
		return PartitionConfig{}, err
	}
	cfg := PartitionConfig{SliceWidth: w, SliceHeight: h, Orientation: o}
	if err := cfg.Validate(); err != nil {
		return PartitionConfig{}, err
	}
	return cfg, nil
}

// DefaultConfigFor proposes a slice size for an image of the given size:
// the default dimensions, reduced to the image extent.
func DefaultConfigFor(imageWidth, imageHeight int, o Orientation) PartitionConfig {
	if !o.Valid() {
		o = OrientationHorizontal
	}
	return PartitionConfig{
		SliceWidth:  min(DefaultSliceWidth, imageWidth),
		SliceHeight: min(DefaultSliceHeight, imageHeight),
		Orientation: o,
	}
}

// Region is the source rectangle of one output page, in image pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns the region area in pixels.
func (r Region) Area() int {
	return r.Width * r.Height
}

// String formats the region as "(x,y WxH)".
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Bitmap is a decoded source image. It is immutable once loaded and replaced
// wholesale when another file is opened.
type Bitmap struct {
	ID     string      `json:"id"`
	Path   string      `json:"path"`
	Format string      `json:"format"`
	Image  image.Image `json:"-"`
}

// NewBitmap wraps a decoded image with a fresh short ID.
func NewBitmap(path, format string, img image.Image) *Bitmap {
	return &Bitmap{
		ID:     uuid.New().String()[:8],
		Path:   path,
		Format: format,
		Image:  img,
	}
}

// Width returns the pixel width, or 0 for an empty bitmap.
func (b *Bitmap) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the pixel height, or 0 for an empty bitmap.
func (b *Bitmap) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Loaded reports whether the bitmap holds decoded pixels.
func (b *Bitmap) Loaded() bool {
	return b != nil && b.Image != nil && b.Width() > 0 && b.Height() > 0
}
