package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var manifestHeader = []string{"page", "row", "column", "x", "y", "width", "height"}

func manifestRecord(l TileLabel) []string {
	return []string{
		strconv.Itoa(l.Page),
		strconv.Itoa(l.Row),
		strconv.Itoa(l.Col),
		strconv.Itoa(l.X),
		strconv.Itoa(l.Y),
		strconv.Itoa(l.Width),
		strconv.Itoa(l.Height),
	}
}

// WriteManifest writes one row per page to path. The format follows the
// extension: .xlsx produces a spreadsheet, anything else CSV.
func WriteManifest(path string, labels []TileLabel) error {
	if len(labels) == 0 {
		return fmt.Errorf("no pages to list in the manifest")
	}
	write := func(w io.Writer) error { return EncodeManifestCSV(w, labels) }
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		write = func(w io.Writer) error { return EncodeManifestXLSX(w, labels) }
	}
	return writeFileAtomic(path, write)
}

// EncodeManifestCSV writes the manifest as CSV with a header row.
func EncodeManifestCSV(w io.Writer, labels []TileLabel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(manifestHeader); err != nil {
		return err
	}
	for _, l := range labels {
		if err := cw.Write(manifestRecord(l)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const manifestSheet = "Pages"

// EncodeManifestXLSX writes the manifest as an Excel workbook with a single
// "Pages" sheet.
func EncodeManifestXLSX(w io.Writer, labels []TileLabel) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", manifestSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(manifestHeader))
	for i, h := range manifestHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(manifestSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(manifestSheet, "A1", "G1", bold); err != nil {
		return err
	}

	for i, l := range labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{l.Page, l.Row, l.Col, l.X, l.Y, l.Width, l.Height}
		if err := f.SetSheetRow(manifestSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write page %d: %w", l.Page, err)
		}
	}

	return f.Write(w)
}
