package output

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	readingsSheet = "Readings"
)

// XLSXFormatter writes reports as an Excel workbook with a summary
// sheet and a sheet of every reading.
type XLSXFormatter struct {
	opts FormatOptions
}

// NewXLSXFormatter creates a new workbook formatter.
func NewXLSXFormatter(opts FormatOptions) *XLSXFormatter {
	return &XLSXFormatter{opts: opts}
}

// Name returns the format name.
func (f *XLSXFormatter) Name() string {
	return "xlsx"
}

// Format renders the report as a workbook.
func (f *XLSXFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if err := writeSummarySheet(book, report); err != nil {
		return err
	}

	if !f.opts.Quiet {
		if _, err := book.NewSheet(readingsSheet); err != nil {
			return fmt.Errorf("creating readings sheet: %w", err)
		}
		if err := writeReadingsSheet(book, report); err != nil {
			return err
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(book *excelize.File, report *Report) error {
	rows := [][]interface{}{
		{"Target", "Location", "Status", "Latest", "Horizontal (mm)", "Vertical (mm)", "Max horizontal (mm)"},
	}
	for _, t := range report.Targets {
		rows = append(rows, []interface{}{
			t.Target,
			t.Location,
			string(t.Status),
			t.Latest.Time.Format(timeLayout),
			t.Latest.Horizontal,
			t.Latest.DZ,
			t.MaxHorizontal,
		})
	}
	return writeRows(book, summarySheet, rows)
}

func writeReadingsSheet(book *excelize.File, report *Report) error {
	rows := [][]interface{}{
		{"Target", "Time", "Phase", "dX (mm)", "dY (mm)", "dZ (mm)", "Horizontal (mm)", "Status"},
	}
	for _, t := range report.Targets {
		for _, r := range t.Readings {
			phase := "before"
			if r.AfterConstruction {
				phase = "after"
			}
			rows = append(rows, []interface{}{
				t.Target,
				r.Time.Format(timeLayout),
				phase,
				r.DX, r.DY, r.DZ,
				r.Horizontal,
				string(r.Status),
			})
		}
	}
	return writeRows(book, readingsSheet, rows)
}

func writeRows(book *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
