package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/utc"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/errors"
)

// Sheet names of the written workbooks.
const (
	ReportSheet = "Report"
	MatrixSheet = "Matrix"
)

// FileName returns "<prefix><timestamp>.xlsx" for a report written at ts.
func FileName(prefix string, ts utc.Time) string {
	return prefix + ts.Format(constants.TimeFormatFilename) + ".xlsx"
}

// WriteXLSX writes the report to a single-sheet workbook at path.
func (r *Report) WriteXLSX(path string) error {
	header, rows := r.Table()
	return writeWorkbook(path, ReportSheet, header, rows)
}

// WriteCSV writes the header and rows as CSV.
func (r *Report) WriteCSV(w io.Writer) error {
	header, rows := r.Table()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WritePreview writes the fixed-width terminal preview: a "=" rule, the
// header, a rule, one line per row, a closing rule and the row count.
func (r *Report) WritePreview(w io.Writer) error {
	header, rows := r.Table()

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, c := range row {
			if n := displayWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	total := 3 * (len(header) - 1)
	for _, n := range widths {
		total += n
	}
	rule := strings.Repeat("=", total)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(previewLine(header, widths) + "\n")
	b.WriteString(rule + "\n")
	for _, row := range rows {
		b.WriteString(previewLine(row, widths) + "\n")
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total unique identifiers checked: %d\n", len(rows))

	_, err := io.WriteString(w, b.String())
	return err
}

func previewLine(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c + strings.Repeat(" ", widths[i]-displayWidth(c))
	}
	return strings.Join(parts, " | ")
}

// displayWidth counts terminal columns, two for East Asian wide runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// WriteXLSX writes the matrix to a single-sheet workbook at path.
func (m *Matrix) WriteXLSX(path string) error {
	return writeWorkbook(path, MatrixSheet, m.Headers, m.Rows)
}

// writeWorkbook creates parent directories and saves header and rows to
// one sheet of a new workbook.
func writeWorkbook(path, sheet string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.WrapParse("xlsx", path, err)
	}

	for i, row := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.WrapParse("xlsx", path, err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.WrapParse("xlsx", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
