package config

// Default values for configuration.
const (
	DefaultDataDir           = "."
	DefaultTarget            = "SO5.2"
	DefaultConstructionStart = "2023-03-12 00:00"
	DefaultAmber             = 8
	DefaultRed               = 15
	DefaultPlotSize          = 800

	// ConstructionStartLayout is the Go time layout for construction_start
	// and skip_dates.
	ConstructionStartLayout = "2006-01-02 15:04"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. SURVMON_DATA_DIR.
const EnvPrefix = "SURVMON"

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		DataDir:           DefaultDataDir,
		Target:            DefaultTarget,
		ConstructionStart: DefaultConstructionStart,
		TriggerLevels: TriggerLevels{
			Amber: DefaultAmber,
			Red:   DefaultRed,
		},
		Plot: PlotConfig{
			Format: PlotFormatHTML,
			Size:   DefaultPlotSize,
		},
	}
}
