// Package config provides configuration loading and validation for survmon.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// DataDir is the directory holding the dated CSV snapshots.
	DataDir string `yaml:"data_dir"`

	// Target is the monitoring target plotted by default.
	Target string `yaml:"target" validate:"required"`

	// ConstructionStart separates readings taken before works began from
	// those taken after. Layout is ConstructionStartLayout.
	ConstructionStart string `yaml:"construction_start" validate:"required"`

	TriggerLevels TriggerLevels `yaml:"trigger_levels"`

	// SkipDates lists snapshot times (ConstructionStartLayout) that the
	// scanner treats as already processed.
	SkipDates []string `yaml:"skip_dates,omitempty"`

	Plot PlotConfig `yaml:"plot"`

	// Parsed values (populated during validation)
	constructionStart time.Time
	skipDates         []time.Time
}

// ConstructionStartTime returns the parsed construction start.
func (c *Config) ConstructionStartTime() time.Time {
	return c.constructionStart
}

// SkipTimes returns the parsed skip dates.
func (c *Config) SkipTimes() []time.Time {
	return c.skipDates
}

// TriggerLevels are displacement radii in millimetres.
type TriggerLevels struct {
	// Amber is the warning threshold.
	Amber float64 `yaml:"amber" validate:"gt=0"`

	// Red is the action threshold and must exceed Amber.
	Red float64 `yaml:"red" validate:"gtfield=Amber"`
}

// PlotFormat selects how a figure is rendered.
type PlotFormat string

const (
	PlotFormatHTML PlotFormat = "html"
	PlotFormatPNG  PlotFormat = "png"
	PlotFormatSVG  PlotFormat = "svg"
)

// PlotConfig controls figure rendering.
type PlotConfig struct {
	Format PlotFormat `yaml:"format" validate:"oneof=html png svg"`

	// Size is the edge of the square canvas in pixels.
	Size int `yaml:"size" validate:"min=200,max=4000"`
}
