package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete pulse configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Host     HostConfig     `mapstructure:"host" yaml:"host"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the minimum level to log: "debug", "info", "warn", or "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory pulse.log is written to. Empty logs to stderr.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB rotates pulse.log once it reaches this size (0 = never)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// DispatchConfig controls context behavior
type DispatchConfig struct {
	// FanoutLimit bounds concurrent directed sends during a broadcast (0 = unbounded)
	FanoutLimit int `mapstructure:"fanout_limit" yaml:"fanout_limit"`
	// DefaultCategory is the category CLI commands use when none is given
	DefaultCategory string `mapstructure:"default_category" yaml:"default_category"`
}

// HostConfig controls the in-memory host used by the CLI
type HostConfig struct {
	// InboxSize is the per-endpoint delivery buffer
	InboxSize int `mapstructure:"inbox_size" yaml:"inbox_size"`
	// Tabs is the number of tab endpoints the loopback command creates
	Tabs int `mapstructure:"tabs" yaml:"tabs"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Dispatch: DispatchConfig{
			FanoutLimit:     0,
			DefaultCategory: "inspector",
		},
		Host: HostConfig{
			InboxSize: 64,
			Tabs:      3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Dispatch defaults
	viper.SetDefault("dispatch.fanout_limit", defaults.Dispatch.FanoutLimit)
	viper.SetDefault("dispatch.default_category", defaults.Dispatch.DefaultCategory)

	// Host defaults
	viper.SetDefault("host.inbox_size", defaults.Host.InboxSize)
	viper.SetDefault("host.tabs", defaults.Host.Tabs)
}

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "PULSE"

// BindEnv enables environment overrides for every key, e.g.
// PULSE_DISPATCH_FANOUT_LIMIT for dispatch.fanout_limit.
func BindEnv() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulse")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pulse"
	}
	return filepath.Join(home, ".config", "pulse")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
