// Package export renders partitions to PDF and writes the companion
// outputs: tile map labels, slice manifests and DXF grids.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/imgslice/internal/model"
)

// PDFDocument is a Document backed by fpdf. One document unit is one point,
// so a pixel of the source image maps to one point on the page.
type PDFDocument struct {
	pdf    *fpdf.Fpdf
	images int
}

// NewPDFDocument creates an empty PDF whose default page is exactly
// pageWidth x pageHeight points, tagged with the given orientation.
func NewPDFDocument(pageWidth, pageHeight float64, orientation model.PageOrientation) Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: string(orientation),
		UnitStr:        "pt",
		Size:           pageSize(pageWidth, pageHeight, orientation),
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("imgslice", true)
	return &PDFDocument{pdf: pdf}
}

// pageSize compensates for fpdf swapping width and height of landscape pages,
// so the resulting page is width x height whatever the tag.
func pageSize(width, height float64, orientation model.PageOrientation) fpdf.SizeType {
	if orientation == model.PageLandscape {
		return fpdf.SizeType{Wd: height, Ht: width}
	}
	return fpdf.SizeType{Wd: width, Ht: height}
}

// AddPage starts a page of exactly width x height points.
func (d *PDFDocument) AddPage(width, height float64, orientation model.PageOrientation) error {
	d.pdf.AddPageFormat(string(orientation), pageSize(width, height, orientation))
	return d.pdf.Error()
}

// PlaceImage draws a JPEG on the current page, scaled to width x height
// points with its top-left corner at (x, y).
func (d *PDFDocument) PlaceImage(jpeg []byte, x, y, width, height float64) error {
	d.images++
	name := fmt.Sprintf("crop_%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpeg))
	d.pdf.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	return d.pdf.Error()
}

// PageCount returns the number of pages added so far.
func (d *PDFDocument) PageCount() int {
	return d.pdf.PageNo()
}

// Output writes the finished PDF to w.
func (d *PDFDocument) Output(w io.Writer) error {
	return d.pdf.Output(w)
}

// WritePDF renders the regions and delivers the document to path. The file
// only appears once every page has been rendered; on error or cancellation
// nothing is written.
func (r *Renderer) WritePDF(ctx context.Context, path string, bmp *model.Bitmap, regions []model.Region, cfg model.PartitionConfig) (RenderReport, error) {
	doc, report, err := r.Render(ctx, bmp, regions, cfg)
	if err != nil {
		return report, err
	}
	if err := writeFileAtomic(path, doc.Output); err != nil {
		return report, fmt.Errorf("failed to write %s: %w", path, err)
	}
	r.logger().Info("exported PDF", "path", path, "pages", report.Pages)
	return report, nil
}

// writeFileAtomic writes through a temporary file in the target directory
// and renames it into place once write succeeds.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
