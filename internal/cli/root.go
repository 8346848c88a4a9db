// Package cli provides the command-line interface for survmon.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/survmon/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "survmon",
		Short: "Plot survey target displacement against trigger levels",
		Long: `survmon loads dated survey snapshots (YYYYMMDD_HHMM.csv), computes how far
each monitoring target has moved from its baseline position, and plots the
horizontal displacement against amber and red trigger levels.

Readings taken before the construction start date are shown separately
from those taken after, so movement caused by the works stands out.

Running survmon with no command is the same as 'survmon plot'.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return global.Init(cmd.ErrOrStderr())
		},
	}
	global.AddFlags(rootCmd)

	plotCmd := commands.NewPlotCommand(global)
	rootCmd.Flags().AddFlagSet(plotCmd.Flags())
	rootCmd.RunE = plotCmd.RunE

	// Add subcommands
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(commands.NewReportCommand(global))
	rootCmd.AddCommand(commands.NewDiagnoseCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
