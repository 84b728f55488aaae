// Package config loads pipeline settings from defaults, an optional YAML
// file, MATPIPE_ environment variables and command line flags, in that
// order of precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/hikarimat/matpipe/pkg/errors"
)

// Config holds every tunable the CLI exposes.
type Config struct {
	Preset            string  `koanf:"preset"`
	Target            string  `koanf:"target"`
	CompositionColumn string  `koanf:"composition_column"`
	StructureColumn   string  `koanf:"structure_column"`
	MaxNAFrac         float64 `koanf:"max_na_frac"`
	NAThreshold       float64 `koanf:"na_threshold"`
	Folds             int     `koanf:"folds"`
	Workers           int     `koanf:"workers"`
	Seed              int64   `koanf:"seed"`
	TestFraction      float64 `koanf:"test_fraction"`

	Log LogConfig `koanf:"log"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"preset":             "balanced",
		"target":             "",
		"composition_column": "",
		"structure_column":   "",
		"max_na_frac":        0.05,
		"na_threshold":       0.05,
		"folds":              5,
		"workers":            0,
		"seed":               0,
		"test_fraction":      0.25,
		"log.level":          "info",
		"log.json":           false,
	}
}

// Load builds the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	const op = "config.Load"
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, op)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, op)
		}
	}
	if err := k.Load(env.Provider("MATPIPE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "MATPIPE_")), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, op)
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, errors.Wrap(err, op)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, op)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxNAFrac < 0 || c.MaxNAFrac > 1 {
		return errors.NewValidationError("max_na_frac", "must be in [0, 1]", c.MaxNAFrac)
	}
	if c.NAThreshold < 0 || c.NAThreshold > 1 {
		return errors.NewValidationError("na_threshold", "must be in [0, 1]", c.NAThreshold)
	}
	if c.Folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", c.Folds)
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		return errors.NewValidationError("test_fraction", "must be in [0, 1)", c.TestFraction)
	}
	return nil
}
