package output

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/ccollicutt/survmon/pkg/survey"
)

// NewReport summarises a loaded dataset. Unknown entries in opts.Targets
// fail with survey.ErrTargetNotFound.
func NewReport(ds survey.Dataset, scan *survey.ScanResult, opts Options) (*Report, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	targets := opts.Targets
	if len(targets) == 0 {
		targets = ds.Targets()
	}

	report := &Report{
		Targets: make([]TargetReport, 0, len(targets)),
		Metadata: Metadata{
			ConfigFile:        opts.ConfigFile,
			ConstructionStart: opts.ConstructionStart,
			TriggerLevels:     opts.Levels,
			GeneratedAt:       clock.Now(),
		},
	}
	if !opts.ScanStarted.IsZero() {
		report.Metadata.Duration = report.Metadata.GeneratedAt.Sub(opts.ScanStarted)
	}

	if scan != nil {
		report.Metadata.DataDir = scan.Dir
		for _, f := range scan.Files {
			if f.Skipped {
				continue
			}
			report.Metadata.Sources = append(report.Metadata.Sources, f.Path)
			report.Summary.RowsSkipped += f.Stats.Skipped
		}
		report.Summary.FilesLoaded = len(report.Metadata.Sources)
	}

	for _, target := range targets {
		series, err := ds.Series(target)
		if err != nil {
			return nil, err
		}

		tr := newTargetReport(target, series, opts)
		report.Targets = append(report.Targets, tr)
		report.Summary.Readings += len(tr.Readings)

		switch tr.Status {
		case survey.StatusAmber:
			report.Summary.TargetsAmber++
		case survey.StatusRed:
			report.Summary.TargetsRed++
		}
	}
	report.Summary.TargetsReported = len(report.Targets)

	return report, nil
}

func newTargetReport(target string, series survey.Series, opts Options) TargetReport {
	tr := TargetReport{Target: target}

	for _, ts := range series.Times() {
		r := series[ts]
		row := Row{
			Time:              ts,
			AfterConstruction: !ts.Before(opts.ConstructionStart),
			DX:                r.Movement.DX,
			DY:                r.Movement.DY,
			DZ:                r.Movement.DZ,
			Horizontal:        r.Horizontal,
			Status:            opts.Levels.Classify(r.Horizontal),
		}
		tr.Readings = append(tr.Readings, row)

		if r.Horizontal > tr.MaxHorizontal {
			tr.MaxHorizontal = r.Horizontal
		}
		if r.Location != "" {
			tr.Location = r.Location
		}
	}

	if n := len(tr.Readings); n > 0 {
		tr.Latest = tr.Readings[n-1]
		tr.Status = tr.Latest.Status
	}
	return tr
}

// String renders a short status line for a target.
func (t TargetReport) String() string {
	return fmt.Sprintf("%s: %s (latest %.2f mm, max %.2f mm)", t.Target, t.Status, t.Latest.Horizontal, t.MaxHorizontal)
}
