// Package config loads settings for the loaders, the renderer and logging
// from a YAML file and LIPID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"lipid/internal/engine"
	"lipid/internal/logging"
	"lipid/internal/nomenclature"
)

const envPrefix = "LIPID"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultPreset    = "common"
)

type Config struct {
	Log          logging.Config     `mapstructure:"log"`
	Engine       EngineConfig       `mapstructure:"engine"`
	Nomenclature NomenclatureConfig `mapstructure:"nomenclature"`
}

// EngineConfig sizes the profile workers. Zero means one per CPU.
type EngineConfig struct {
	Workers int `mapstructure:"workers"`
}

// Options returns the loader and profile options, logging to logger.
func (e EngineConfig) Options(logger *zap.Logger) []engine.Option {
	return []engine.Option{engine.WithWorkers(e.Workers), engine.WithLogger(logger)}
}

// NomenclatureConfig selects how fatty acids are named.
type NomenclatureConfig struct {
	Preset   string `mapstructure:"preset"`
	Width    int    `mapstructure:"width"`
	Expanded bool   `mapstructure:"expanded"`
}

// Options returns the renderer options of the preset.
func (n NomenclatureConfig) Options() (nomenclature.Options, error) {
	return nomenclature.Preset(n.Preset)
}

// Format returns the render format.
func (n NomenclatureConfig) Format() nomenclature.Format {
	return nomenclature.Format{Width: n.Width, Expanded: n.Expanded}
}

// newViper registers every key so that environment variables are seen by
// Unmarshal even without a file: nomenclature.width resolves to
// LIPID_NOMENCLATURE_WIDTH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("nomenclature.preset", DefaultPreset)
	v.SetDefault("nomenclature.width", 0)
	v.SetDefault("nomenclature.expanded", false)
	return v
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return finalize(v)
}

// LoadFromEnv builds a Config from LIPID_* variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields. Explicit values win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Nomenclature.Preset == "" {
		cfg.Nomenclature.Preset = DefaultPreset
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("engine.workers: must not be negative, got %d", c.Engine.Workers))
	}
	if _, err := c.Nomenclature.Options(); err != nil {
		errs = append(errs, err)
	}
	if c.Nomenclature.Width < 0 {
		errs = append(errs, fmt.Errorf("nomenclature.width: must not be negative, got %d", c.Nomenclature.Width))
	}
	return errors.Join(errs...)
}
