// Package export writes resolved UF series to files.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/valoruf/valoruf/internal/series"
)

// columns defines the ordered output columns of both formats.
var columns = []string{"date", "value"}

// Write saves records to path, picking the format from the file extension.
// Supported: .csv, .xlsx.
func Write(path string, records []series.Record) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, records)
	case ".xlsx":
		return WriteXLSX(path, records)
	default:
		return eris.Errorf("export: unsupported format %q", filepath.Ext(path))
	}
}

// WriteCSV writes records as a CSV file. A missing value leaves the cell
// empty.
func WriteCSV(path string, records []series.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, r := range records {
		row := []string{r.Date, ""}
		if !r.Missing {
			row[1] = strconv.FormatFloat(r.Value, 'f', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	return nil
}

// WriteXLSX writes records as a spreadsheet with a single "UF" sheet. Values
// are stored as numeric cells so the result is usable for calculation.
func WriteXLSX(path string, records []series.Record) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("UF")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Date)
		cell := row.AddCell()
		if !r.Missing {
			cell.SetFloat(r.Value)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save file")
	}
	return nil
}
