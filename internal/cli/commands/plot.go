package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/survmon/pkg/plot"
)

// PlotOptions holds command-line options for the plot command.
type PlotOptions struct {
	Format string
	Out    string
	Size   int
	NoOpen bool
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(g *GlobalOptions) *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot [target]",
		Short: "Plot horizontal displacement for a target",
		Long: `Load every snapshot in the data directory and plot the horizontal
displacement of one target.

Readings taken before the construction start are drawn in blue, later
readings in red. The amber and red trigger levels are drawn as circles
around the baseline position.

By default the figure is opened in the system viewer. Use --out to write
it to a file instead, or --no-open to write it to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Figure format (html|png|svg), defaults to the configured format")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write the figure to this file")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "Canvas size in pixels, defaults to the configured size")
	cmd.Flags().BoolVar(&opts.NoOpen, "no-open", false, "Do not open the figure in a viewer")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, g *GlobalOptions, opts *PlotOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := loadSession(ctx, g)
	if err != nil {
		return err
	}

	target := s.cfg.Target
	if len(args) == 1 {
		target = args[0]
	}

	fig, err := plot.NewFigure(s.dataset, target, s.cfg.ConstructionStartTime(), s.levels())
	if err != nil {
		return err
	}

	format := plot.Format(s.cfg.Plot.Format)
	if opts.Format != "" {
		format = plot.Format(opts.Format)
	}
	renderOpts := plot.RenderOptions{Size: s.cfg.Plot.Size}
	if opts.Size > 0 {
		renderOpts.Size = opts.Size
	}

	switch {
	case opts.Out != "":
		if err := writeFigure(fig, format, opts.Out, renderOpts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d before, %d after construction)\n",
			opts.Out, fig.Before.Len(), fig.After.Len())
	case opts.NoOpen:
		if err := plot.Render(fig, format, cmd.OutOrStdout(), renderOpts); err != nil {
			return fmt.Errorf("rendering figure: %w", err)
		}
	default:
		path, err := plot.Display(fig, renderOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", path)
	}

	return nil
}

func writeFigure(fig *plot.Figure, format plot.Format, path string, opts plot.RenderOptions) error {
	f, err := os.Create(path) // #nosec G304 -- output path is supplied by the user
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := plot.Render(fig, format, f, opts); err != nil {
		f.Close()
		return fmt.Errorf("rendering figure: %w", err)
	}
	return f.Close()
}
