package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string

	logger *slog.Logger
}

// AddFlags registers the persistent flags on the root command.
func (g *GlobalOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&g.ConfigFile, "config", "c", "", "Configuration file (defaults are used when omitted)")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "text", "Log format (text|json)")
}

// Init builds the logger from the flags. Logs are written to w.
func (g *GlobalOptions) Init(w io.Writer) error {
	logger, err := NewLogger(w, g.LogLevel, g.LogFormat)
	if err != nil {
		return err
	}
	g.logger = logger
	return nil
}

// Logger returns the configured logger, or one that discards everything
// when Init has not run.
func (g *GlobalOptions) Logger() *slog.Logger {
	if g == nil || g.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.logger
}

// NewLogger creates a slog logger writing to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", level)
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (use text or json)", format)
	}
}
