// Package config provides configuration types and defaults for linelex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: LINELEX_LOG_VERBOSITY sets
// log.verbosity.
const EnvPrefix = "LINELEX"

// Config holds all configuration options for linelex.
type Config struct {
	DefaultLanguage string       `mapstructure:"default_language" yaml:"default_language"`
	LanguagesDir    string       `mapstructure:"languages_dir" yaml:"languages_dir"` // directory of .lang definition files
	Log             LogConfig    `mapstructure:"log" yaml:"log"`
	Trace           TraceConfig  `mapstructure:"trace" yaml:"trace"`
	Worker          WorkerConfig `mapstructure:"worker" yaml:"worker"`
}

type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity" yaml:"verbosity"`
	File      string `mapstructure:"file" yaml:"file"` // empty logs to stderr
}

type TraceConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Exporter string `mapstructure:"exporter" yaml:"exporter"` // "none", "stdout" or "file"
	File     string `mapstructure:"file" yaml:"file"`
}

// WorkerConfig sizes the background tokenization worker of the LSP server.
type WorkerConfig struct {
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		DefaultLanguage: "generic",
		Log: LogConfig{
			Verbosity: 1,
		},
		Trace: TraceConfig{
			Enabled:  false,
			Exporter: "none",
		},
		Worker: WorkerConfig{
			QueueSize: 4,
		},
	}
}

// SetDefaults registers the defaults with v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("default_language", d.DefaultLanguage)
	v.SetDefault("languages_dir", d.LanguagesDir)
	v.SetDefault("log.verbosity", d.Log.Verbosity)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.exporter", d.Trace.Exporter)
	v.SetDefault("trace.file", d.Trace.File)
	v.SetDefault("worker.queue_size", d.Worker.QueueSize)
}

// Load reads the configuration. An explicit path must exist; otherwise
// .linelex.yaml in the working directory and ~/.config/linelex/config.yaml
// are tried, and a missing file leaves the defaults in place.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(".linelex.yaml"); err == nil {
		v.SetConfigFile(".linelex.yaml")
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "linelex"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	switch c.Trace.Exporter {
	case "", "none", "stdout":
	case "file":
		if c.Trace.File == "" {
			return fmt.Errorf("invalid config: trace.file required for the file exporter")
		}
	default:
		return fmt.Errorf("invalid config: unknown trace.exporter %q", c.Trace.Exporter)
	}
	if c.Worker.QueueSize < 1 {
		return fmt.Errorf("invalid config: worker.queue_size must be at least 1, got %d", c.Worker.QueueSize)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("invalid config: log.verbosity must not be negative")
	}
	return nil
}
