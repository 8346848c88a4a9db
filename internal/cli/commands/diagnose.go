package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/survmon/pkg/config"
	"github.com/ccollicutt/survmon/pkg/survey"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose configuration and snapshot problems",
		Long: `Diagnose common configuration and data problems.

Unlike plot and report, every check runs even when an earlier one fails:
- Config file syntax and structure
- Data directory existence
- Snapshot file names (YYYYMMDD_HHMM.csv)
- Column counts and numeric fields in each snapshot
- Rows skipped for having no measurement

Example:
  survmon diagnose -c survmon.yaml
  survmon diagnose -v  # verbose output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), g.ConfigFile, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	if configPath != "" {
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Check data directory
	files, result := checkDataDir(cfg)
	results = append(results, result)

	// 4. Check each snapshot
	ds := survey.NewDataset()
	results = append(results, checkSnapshots(files, ds)...)

	// 5. Check the configured target and skip dates against what loaded
	if len(files) > 0 {
		results = append(results, checkTarget(cfg, ds))
	}
	results = append(results, checkSkipDates(cfg, files)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Omit --config to run with the built-in defaults",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		if strings.Contains(err.Error(), "construction_start") || strings.Contains(err.Error(), "skip_dates") {
			result.Suggests = append(result.Suggests,
				fmt.Sprintf("Dates use the layout %q", config.ConstructionStartLayout))
		}
		return nil, result
	}

	result.Status = "ok"
	if path == "" {
		result.Message = "Using built-in defaults"
	} else {
		result.Message = "Config file parsed successfully"
	}
	result.Details = []string{
		fmt.Sprintf("Target: %s", cfg.Target),
		fmt.Sprintf("Construction start: %s", cfg.ConstructionStartTime().Format(config.ConstructionStartLayout)),
		fmt.Sprintf("Trigger levels: amber %g mm, red %g mm", cfg.TriggerLevels.Amber, cfg.TriggerLevels.Red),
	}
	return cfg, result
}

func checkDataDir(cfg *config.Config) ([]string, DiagnosticResult) {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Data Directory: %s", cfg.DataDir),
	}

	info, err := os.Stat(cfg.DataDir)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = "Directory does not exist"
		result.Suggests = []string{"Set data_dir in the config or SURVMON_DATA_DIR"}
		return nil, result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access directory: %v", err)
		return nil, result
	}
	if !info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a file, not a directory"
		return nil, result
	}

	files, err := survey.NewScanner(cfg.DataDir).Snapshots()
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return nil, result
	}
	if len(files) == 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("No %s files found", survey.SnapshotExt)
		result.Suggests = []string{
			"Snapshot files must use a lower-case .csv extension",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found %d snapshot file(s)", len(files))
	result.Details = files
	return files, result
}

// checkSnapshots loads each file independently so one bad file does not
// hide problems in the others.
func checkSnapshots(files []string, ds survey.Dataset) []DiagnosticResult {
	results := []DiagnosticResult{}

	for _, path := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Snapshot: %s", filepath.Base(path)),
		}

		stem := strings.TrimSuffix(filepath.Base(path), survey.SnapshotExt)
		ts, err := survey.ParseTimestamp(stem)
		if err != nil {
			result.Status = "error"
			result.Message = err.Error()
			result.Suggests = []string{"Name snapshots YYYYMMDD_HHMM.csv, e.g. 20230115_0930.csv"}
			results = append(results, result)
			continue
		}

		stats, err := loadSnapshot(path, ts, ds)
		switch {
		case errors.Is(err, survey.ErrShortRow):
			result.Status = "error"
			result.Message = err.Error()
			result.Suggests = []string{
				fmt.Sprintf("Every row needs %d columns: target, location, baseline E/N/H, measured E/N/H", survey.RowColumns),
			}
		case errors.Is(err, survey.ErrBadNumber):
			result.Status = "error"
			result.Message = err.Error()
			result.Suggests = []string{"Baseline coordinates and measured northing/height must be numeric"}
		case err != nil:
			result.Status = "error"
			result.Message = err.Error()
		case stats.Skipped > 0:
			result.Status = "warning"
			result.Message = fmt.Sprintf("%s: %d of %d row(s) have no measurement and were skipped",
				ts.Format(config.ConstructionStartLayout), stats.Skipped, stats.Rows)
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("%s: %d reading(s)", ts.Format(config.ConstructionStartLayout), stats.Loaded)
		}
		results = append(results, result)
	}

	return results
}

func loadSnapshot(path string, ts time.Time, ds survey.Dataset) (survey.LoadStats, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the data directory listing
	if err != nil {
		return survey.LoadStats{}, err
	}
	defer f.Close()
	return ds.Load(f, ts)
}

func checkTarget(cfg *config.Config, ds survey.Dataset) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Target: %s", cfg.Target),
	}

	series, err := ds.Series(cfg.Target)
	if err != nil {
		result.Status = "warning"
		result.Message = "Target has no readings in any snapshot"
		result.Details = ds.Targets()
		result.Suggests = []string{"Check the target id, or pass one to 'survmon plot <target>'"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d reading(s)", len(series))
	return result
}

func checkSkipDates(cfg *config.Config, files []string) []DiagnosticResult {
	results := []DiagnosticResult{}
	if len(cfg.SkipDates) == 0 {
		return results
	}

	seen := make(map[string]bool)
	for _, path := range files {
		stem := strings.TrimSuffix(filepath.Base(path), survey.SnapshotExt)
		if ts, err := survey.ParseTimestamp(stem); err == nil {
			seen[ts.Format(config.ConstructionStartLayout)] = true
		}
	}

	var unmatched []string
	for _, ts := range cfg.SkipTimes() {
		if key := ts.Format(config.ConstructionStartLayout); !seen[key] {
			unmatched = append(unmatched, key)
		}
	}

	result := DiagnosticResult{Check: "Skip Dates"}
	if len(unmatched) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d skip date(s) match no snapshot", len(unmatched))
		result.Details = unmatched
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("%d snapshot(s) will be skipped", len(cfg.SkipDates))
	}
	return append(results, result)
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== survmon Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before plotting.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nData is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nEverything looks good!")
	}
}
