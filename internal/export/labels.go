package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/imgslice/internal/engine"
	"github.com/piwi3910/imgslice/internal/model"
)

// TileLabel holds the data printed on, and encoded into, each tile label.
type TileLabel struct {
	Page   int    `json:"page"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Source string `json:"source,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // mm
	labelPadding    = 2.0  // mm
)

// CollectTileLabels builds one label per region, numbered in page order.
// Row and column are one-based.
func CollectTileLabels(regions []model.Region, imageWidth int, cfg model.PartitionConfig, source string) []TileLabel {
	labels := make([]TileLabel, 0, len(regions))
	for i, r := range regions {
		row, col := engine.GridPosition(i, imageWidth, cfg)
		labels = append(labels, TileLabel{
			Page:   i + 1,
			Row:    row + 1,
			Col:    col + 1,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Source: source,
		})
	}
	return labels
}

// WriteTileMap writes a sheet of QR-coded labels, one per exported page, to
// help reassemble printed tiles.
func WriteTileMap(path string, labels []TileLabel) error {
	if len(labels) == 0 {
		return fmt.Errorf("no tiles to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for page %d: %w", label.Page, err)
		}
	}

	return writeFileAtomic(path, func(w io.Writer) error {
		return pdf.Output(w)
	})
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info TileLabel) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Page)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("Page %d", info.Page), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Row %d, column %d", info.Row, info.Col), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%d x %d px @ (%d, %d)", info.Width, info.Height, info.X, info.Y), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}
