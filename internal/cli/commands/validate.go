package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/survmon/pkg/config"
	"github.com/ccollicutt/survmon/pkg/survey"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a survmon configuration file without loading any snapshots.

Checks:
  - YAML syntax
  - Required fields
  - Trigger levels (amber > 0, red > amber)
  - Construction start and skip date layout
  - Snapshot files in the data directory (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Data dir:           %s\n", cfg.DataDir)
	fmt.Fprintf(out, "  Target:             %s\n", cfg.Target)
	fmt.Fprintf(out, "  Construction start: %s\n", cfg.ConstructionStartTime().Format(config.ConstructionStartLayout))
	fmt.Fprintf(out, "  Trigger levels:     amber %g mm, red %g mm\n", cfg.TriggerLevels.Amber, cfg.TriggerLevels.Red)
	fmt.Fprintf(out, "  Skip dates:         %d\n", len(cfg.SkipDates))

	scanner := survey.NewScanner(cfg.DataDir, survey.WithProcessed(cfg.SkipTimes()))
	files, err := scanner.Snapshots()
	if err != nil {
		fmt.Fprintf(out, "\nWarning: %v\n", err)
		return nil
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "\nWarning: No %s files in %s\n", survey.SnapshotExt, cfg.DataDir)
		return nil
	}

	fmt.Fprintf(out, "\nSnapshot files matched: %d\n", len(files))
	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), survey.SnapshotExt)
		ts, err := survey.ParseTimestamp(stem)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  - %s (invalid name)\n", f)
		case scanner.Processed(ts):
			fmt.Fprintf(out, "  - %s (skipped)\n", f)
		default:
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
