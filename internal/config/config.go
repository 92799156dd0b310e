package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Registry RegistryConfig `mapstructure:"registry"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HTTPConfig contains settings for plain HTTP(S) fetches
type HTTPConfig struct {
	Timeout   string `mapstructure:"timeout"`
	UserAgent string `mapstructure:"user_agent"`
}

// RegistryConfig contains settings for container registry fetches
type RegistryConfig struct {
	// BinDir is the directory holding the skopeo executable. When empty,
	// the location provider falls back to the environment.
	BinDir         string `mapstructure:"bin_dir"`
	CommandTimeout string `mapstructure:"command_timeout"`
}

// FetchConfig contains batch fetch settings
type FetchConfig struct {
	// DestinationDir receives all downloads when set. When empty, each
	// fetch gets a fresh temporary directory.
	DestinationDir string `mapstructure:"destination_dir"`
	Workers        int    `mapstructure:"workers"`
}

// JournalConfig contains fetch journal settings
type JournalConfig struct {
	// Path of the SQLite journal database. Empty disables journaling.
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults() {
	viper.SetDefault("http.timeout", "5m")
	viper.SetDefault("http.user_agent", "artifact-fetch/0.1")
	viper.SetDefault("registry.bin_dir", "")
	viper.SetDefault("registry.command_timeout", "15m")
	viper.SetDefault("fetch.destination_dir", "")
	viper.SetDefault("fetch.workers", 1)
	viper.SetDefault("journal.path", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the configuration with every value at its default.
func Default() *Config {
	return &Config{
		HTTP:     HTTPConfig{Timeout: "5m", UserAgent: "artifact-fetch/0.1"},
		Registry: RegistryConfig{CommandTimeout: "15m"},
		Fetch:    FetchConfig{Workers: 1},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return fmt.Errorf("invalid http.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Registry.CommandTimeout); err != nil {
		return fmt.Errorf("invalid registry.command_timeout: %w", err)
	}

	if c.Fetch.Workers < 1 || c.Fetch.Workers > 16 {
		return fmt.Errorf("fetch.workers must be between 1 and 16")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetTimeout returns the HTTP timeout as time.Duration
func (c *HTTPConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetCommandTimeout returns the subprocess timeout as time.Duration
func (c *RegistryConfig) GetCommandTimeout() time.Duration {
	d, _ := time.ParseDuration(c.CommandTimeout)
	if d == 0 {
		return 15 * time.Minute
	}
	return d
}
