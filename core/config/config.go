// Package config holds the settings of a scrape run. Values come from
// command-line flags, ARCHIVEFEED_* environment variables and an optional
// config file, layered by viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration validation errors.
var (
	ErrMissingOutput        = errors.New("output is required")
	ErrMissingArchivePrefix = errors.New("archive_prefix is required")
	ErrInvalidMaxPages      = errors.New("max_pages must be non-negative")
	ErrInvalidLogLevel      = errors.New("log_level must be one of: debug, info, warn, error")
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ARCHIVEFEED"

// Keys.
const (
	KeyOutput        = "output"
	KeyArchivePrefix = "archive_prefix"
	KeyMaxPages      = "max_pages"
	KeyUserAgent     = "user_agent"
	KeyRespectRobots = "respect_robots"
	KeyLogLevel      = "log_level"
)

// Config is the resolved configuration.
type Config struct {
	Output        string `mapstructure:"output"`
	ArchivePrefix string `mapstructure:"archive_prefix"`
	MaxPages      int    `mapstructure:"max_pages"`
	UserAgent     string `mapstructure:"user_agent"`
	RespectRobots bool   `mapstructure:"respect_robots"`
	LogLevel      string `mapstructure:"log_level"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutput, "updated_rss.xml")
	v.SetDefault(KeyArchivePrefix, "archives")
	v.SetDefault(KeyMaxPages, 1000)
	v.SetDefault(KeyUserAgent, "")
	v.SetDefault(KeyRespectRobots, false)
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads the config file at path (if any), applies environment
// overrides and returns the validated result.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.ArchivePrefix == "" {
		return ErrMissingArchivePrefix
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
