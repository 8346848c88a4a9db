// Package output provides formatting and output generation for displacement reports.
package output

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ccollicutt/survmon/pkg/survey"
)

// Report is the complete displacement summary for a scan.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Targets contains one entry per monitored target.
	Targets []TargetReport `json:"targets"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TargetsReported int `json:"targets_reported"`
	TargetsAmber    int `json:"targets_amber"`
	TargetsRed      int `json:"targets_red"`
	Readings        int `json:"readings"`
	FilesLoaded     int `json:"files_loaded"`
	RowsSkipped     int `json:"rows_skipped"`
}

// TargetReport describes the movement history of one target.
type TargetReport struct {
	Target   string        `json:"target"`
	Location string        `json:"location,omitempty"`
	Status   survey.Status `json:"status"`

	// Latest is the most recent reading.
	Latest Row `json:"latest"`

	// MaxHorizontal is the largest horizontal displacement seen.
	MaxHorizontal float64 `json:"max_horizontal"`

	// Readings lists every reading in chronological order.
	Readings []Row `json:"readings,omitempty"`
}

// Row is a single reading flattened for tabular output.
type Row struct {
	Time              time.Time     `json:"time"`
	AfterConstruction bool          `json:"after_construction"`
	DX                float64       `json:"dx"`
	DY                float64       `json:"dy"`
	DZ                float64       `json:"dz"`
	Horizontal        float64       `json:"horizontal"`
	Status            survey.Status `json:"status"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// DataDir is the scanned snapshot directory.
	DataDir string `json:"data_dir"`

	// Sources lists the snapshot files that were loaded.
	Sources []string `json:"sources"`

	ConstructionStart time.Time            `json:"construction_start"`
	TriggerLevels     survey.TriggerLevels `json:"trigger_levels"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long scanning took.
	Duration time.Duration `json:"duration"`
}

// Options configures NewReport.
type Options struct {
	ConfigFile        string
	ConstructionStart time.Time
	Levels            survey.TriggerLevels

	// Targets limits the report to these targets. Empty means all.
	Targets []string

	// ScanStarted is when scanning began, for Metadata.Duration.
	ScanStarted time.Time

	// Clock supplies GeneratedAt. Defaults to the real clock.
	Clock clockwork.Clock
}

// HasIssues returns true if any target's latest reading breaches a trigger level.
func (r *Report) HasIssues() bool {
	return r.Summary.TargetsAmber+r.Summary.TargetsRed > 0
}
