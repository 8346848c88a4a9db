package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/survmon/pkg/output"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ReportOptions holds command-line options for the report command.
type ReportOptions struct {
	Output  string
	File    string
	Targets []string
	Verbose bool
	Quiet   bool
}

// NewReportCommand creates the report command.
func NewReportCommand(g *GlobalOptions) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report displacement and trigger status per target",
		Long: `Load every snapshot in the data directory and report the latest and
largest horizontal displacement of each target against the trigger levels.

Exit codes:
  0 - All targets below the amber trigger level
  1 - At least one target at or above a trigger level
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|xlsx)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringSliceVar(&opts.Targets, "target", nil, "Report specific target(s) only (can be repeated)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "List every reading, not just the latest")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runReport(cmd *cobra.Command, g *GlobalOptions, opts *ReportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Fail on a bad format before scanning
	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	s, err := loadSession(ctx, g)
	if err != nil {
		return err
	}

	report, err := output.NewReport(s.dataset, s.scan, output.Options{
		ConfigFile:        g.ConfigFile,
		ConstructionStart: s.cfg.ConstructionStartTime(),
		Levels:            s.levels(),
		Targets:           opts.Targets,
		ScanStarted:       s.started,
		Clock:             clock,
	})
	if err != nil {
		return err
	}

	if opts.File != "" {
		err = writeReport(ctx, formatter, report, opts.File)
	} else {
		err = formatter.Format(ctx, report, cmd.OutOrStdout())
	}
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// createFile opens a report file for writing.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path) // #nosec G304 -- output path is supplied by the user
}

// writeReport formats report into path. A failed close is an error since
// it can lose buffered workbook data.
func writeReport(ctx context.Context, formatter output.Formatter, report *output.Report, path string) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := formatter.Format(ctx, report, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func createFormatter(opts *ReportOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "xlsx":
		if opts.File == "" {
			return nil, fmt.Errorf("xlsx output requires --file")
		}
		return output.NewXLSXFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json or xlsx)", opts.Output)
	}
}
