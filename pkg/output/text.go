package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const timeLayout = "2006-01-02 15:04"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "survmon: %d targets, %d amber, %d red\n",
		report.Summary.TargetsReported,
		report.Summary.TargetsAmber,
		report.Summary.TargetsRed)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Survey Displacement Report ===")
	fmt.Fprintf(w, "Construction start: %s\n", report.Metadata.ConstructionStart.Format(timeLayout))
	fmt.Fprintf(w, "Trigger levels: amber %g mm, red %g mm\n",
		report.Metadata.TriggerLevels.Amber,
		report.Metadata.TriggerLevels.Red)
	fmt.Fprintln(w)

	for _, target := range report.Targets {
		f.formatTarget(target, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d targets, %d amber, %d red\n",
		report.Summary.TargetsReported,
		report.Summary.TargetsAmber,
		report.Summary.TargetsRed)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Files loaded: %d (%d rows skipped)\n", report.Summary.FilesLoaded, report.Summary.RowsSkipped)
		fmt.Fprintf(w, "Readings: %d\n", report.Summary.Readings)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatTarget(target TargetReport, w io.Writer) {
	fmt.Fprintf(w, "[%s] %s", strings.ToUpper(string(target.Status)), target.Target)
	if target.Location != "" {
		fmt.Fprintf(w, " (%s)", target.Location)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Latest: %s horizontal %.2f mm, vertical %.2f mm\n",
		target.Latest.Time.Format(timeLayout),
		target.Latest.Horizontal,
		target.Latest.DZ)
	fmt.Fprintf(w, "  Max horizontal: %.2f mm\n", target.MaxHorizontal)

	if f.opts.Verbose {
		for _, row := range target.Readings {
			f.formatRow(row, w)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatRow(row Row, w io.Writer) {
	phase := "before"
	if row.AfterConstruction {
		phase = "after"
	}
	fmt.Fprintf(w, "  - %s %-6s dX=%.2f dY=%.2f dZ=%.2f h=%.2f %s\n",
		row.Time.Format(timeLayout),
		phase,
		row.DX, row.DY, row.DZ,
		row.Horizontal,
		row.Status)
}
