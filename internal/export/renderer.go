package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/piwi3910/imgslice/internal/model"
)

// Document is a multi-page output sink. Pages are appended in order and the
// document is only written out once, by Output.
type Document interface {
	// AddPage starts a new page of the given size in document units.
	AddPage(width, height float64, orientation model.PageOrientation) error
	// PlaceImage draws JPEG data on the current page.
	PlaceImage(jpeg []byte, x, y, width, height float64) error
	PageCount() int
	Output(w io.Writer) error
}

// DocumentFactory creates an empty document whose nominal page size is
// pageWidth x pageHeight.
type DocumentFactory func(pageWidth, pageHeight float64, orientation model.PageOrientation) Document

// Anomaly records a page that was skipped because its region could not be
// cropped from the image.
type Anomaly struct {
	Page   int
	Region model.Region
	Err    error
}

// Error implements the error interface.
func (a Anomaly) Error() string {
	return fmt.Sprintf("page %d %s: %v", a.Page, a.Region, a.Err)
}

// Unwrap exposes both ErrRenderAnomaly and the crop failure.
func (a Anomaly) Unwrap() []error {
	return []error{model.ErrRenderAnomaly, a.Err}
}

// RenderReport summarises a render.
type RenderReport struct {
	Regions   int
	Pages     int
	Clamped   int
	Anomalies []Anomaly
}

// ProgressFunc is called after each region with the number of regions
// processed so far.
type ProgressFunc func(done, total int)

// Renderer crops regions out of a bitmap and places each one on its own page
// at 1:1 scale.
type Renderer struct {
	Quality     int
	NewDocument DocumentFactory
	Progress    ProgressFunc
	Logger      *log.Logger
}

// NewRenderer returns a renderer that encodes crops at the given JPEG
// quality into PDF documents.
func NewRenderer(quality int) *Renderer {
	return &Renderer{Quality: quality, NewDocument: NewPDFDocument}
}

// Render builds a document with one page per region. Missing input fails
// before any document is created. A region that cannot be cropped is skipped
// and reported; the remaining pages are still rendered. The context is
// checked between pages.
func (r *Renderer) Render(ctx context.Context, bmp *model.Bitmap, regions []model.Region, cfg model.PartitionConfig) (Document, RenderReport, error) {
	report := RenderReport{Regions: len(regions)}
	if !bmp.Loaded() || len(regions) == 0 {
		return nil, report, model.ErrMissingInput
	}
	if err := cfg.Validate(); err != nil {
		return nil, report, err
	}

	logger := r.logger()
	newDoc := r.NewDocument
	if newDoc == nil {
		newDoc = NewPDFDocument
	}
	pageW, pageH := float64(cfg.SliceWidth), float64(cfg.SliceHeight)
	orientation := cfg.Orientation.PageOrientation()
	doc := newDoc(pageW, pageH, orientation)

	src := bmp.Image
	bounds := src.Bounds()
	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		page := i + 1

		want := region.Rect().Add(bounds.Min)
		crop := want.Intersect(bounds)
		if crop.Empty() {
			a := Anomaly{Page: page, Region: region, Err: fmt.Errorf("region lies outside the %dx%d image", bounds.Dx(), bounds.Dy())}
			report.Anomalies = append(report.Anomalies, a)
			logger.Warn("skipping page", "page", page, "region", region.String(), "err", a.Err)
			r.progress(page, len(regions))
			continue
		}
		if crop != want {
			report.Clamped++
			logger.Debug("region clamped to image", "page", page, "region", region.String(), "crop", crop.String())
		}

		data, err := r.encode(src, crop)
		if err != nil {
			a := Anomaly{Page: page, Region: region, Err: err}
			report.Anomalies = append(report.Anomalies, a)
			logger.Warn("skipping page", "page", page, "region", region.String(), "err", err)
			r.progress(page, len(regions))
			continue
		}

		if err := doc.AddPage(pageW, pageH, orientation); err != nil {
			return nil, report, fmt.Errorf("failed to add page %d: %w", page, err)
		}
		if err := doc.PlaceImage(data, 0, 0, float64(crop.Dx()), float64(crop.Dy())); err != nil {
			return nil, report, fmt.Errorf("failed to place image on page %d: %w", page, err)
		}
		report.Pages++
		r.progress(page, len(regions))
	}

	if report.Pages == 0 {
		return nil, report, fmt.Errorf("%w: none of the %d regions could be rendered", model.ErrRenderAnomaly, len(regions))
	}
	logger.Debug("render complete", "pages", report.Pages, "skipped", len(report.Anomalies))
	return doc, report, nil
}

// encode crops rect out of src and re-encodes it as JPEG.
func (r *Renderer) encode(src image.Image, rect image.Rectangle) ([]byte, error) {
	quality := r.Quality
	if quality < 1 || quality > 100 {
		quality = 100
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Crop(src, rect), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) progress(done, total int) {
	if r.Progress != nil {
		r.Progress(done, total)
	}
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
