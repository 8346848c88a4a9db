package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

// Load builds a configuration from defaults, the optional YAML file at path
// and SURVMON_* environment variables, in that order, then validates it.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// envOverrides holds the settings that may come from the environment.
// Empty values leave the file or default value in place.
type envOverrides struct {
	DataDir           string `envconfig:"DATA_DIR"`
	Target            string `envconfig:"TARGET"`
	ConstructionStart string `envconfig:"CONSTRUCTION_START"`
}

func (c *Config) applyEnvironmentOverrides() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	if env.DataDir != "" {
		c.DataDir = env.DataDir
	}
	if env.Target != "" {
		c.Target = env.Target
	}
	if env.ConstructionStart != "" {
		c.ConstructionStart = env.ConstructionStart
	}
	return nil
}

// Validate checks a configuration for errors and parses its time fields.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return describeValidation(err)
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = DefaultDataDir
	}

	start, err := time.Parse(ConstructionStartLayout, cfg.ConstructionStart)
	if err != nil {
		return fmt.Errorf("construction_start: %w", err)
	}
	cfg.constructionStart = start

	cfg.skipDates = make([]time.Time, 0, len(cfg.SkipDates))
	for i, s := range cfg.SkipDates {
		ts, err := time.Parse(ConstructionStartLayout, s)
		if err != nil {
			return fmt.Errorf("skip_dates[%d]: %w", i, err)
		}
		cfg.skipDates = append(cfg.skipDates, ts)
	}

	return nil
}

// describeValidation turns validator field errors into yaml-keyed messages.
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value %v)", path, fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report yaml keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
