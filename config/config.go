// Package config loads server settings from boggle.yaml, a .env file and
// BOGGLE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Zereker/boggle/board"
)

// DatabaseConfig selects the result store. Driver "none" disables persistence.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// NATSConfig selects where finished matches are announced. An empty URL
// disables publishing.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// Config holds every server setting.
type Config struct {
	GameAddr     string         `mapstructure:"game_addr"`
	ReportAddr   string         `mapstructure:"report_addr"` // empty disables the report pages
	GameTime     int            `mapstructure:"game_time"`   // seconds per match
	Dictionary   string         `mapstructure:"dictionary"`  // word file; empty uses the built-in list
	Board        string         `mapstructure:"board"`       // fixed 16-letter board; empty rolls dice
	LogLevel     string         `mapstructure:"log_level"`
	LogFormat    string         `mapstructure:"log_format"` // json or console
	FlushTimeout time.Duration  `mapstructure:"flush_timeout"`
	Database     DatabaseConfig `mapstructure:"database"`
	NATS         NATSConfig     `mapstructure:"nats"`
}

// DriverNone disables the result store.
const DriverNone = "none"

// Load reads the configuration. configPath, when set, is searched for
// boggle.yaml before the working directory and ./config. A missing file is
// not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("game_addr", ":2000")
	v.SetDefault("report_addr", ":2500")
	v.SetDefault("game_time", 180)
	v.SetDefault("dictionary", "")
	v.SetDefault("board", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("flush_timeout", "1s")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "data/boggle.db")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "boggle")

	v.SetConfigName("boggle")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("BOGGLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.GameAddr == "" {
		return errors.New("game_addr must be set")
	}

	if c.GameTime <= 0 {
		return fmt.Errorf("game_time must be positive, got %d", c.GameTime)
	}

	if c.Board != "" {
		if _, err := board.New(c.Board); err != nil {
			return fmt.Errorf("invalid board %q: %w", c.Board, err)
		}
	}

	switch c.Database.Driver {
	case "sqlite3", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn must be set for driver %s", c.Database.Driver)
		}
	case DriverNone:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}

	if c.FlushTimeout < 0 {
		return fmt.Errorf("flush_timeout must not be negative, got %v", c.FlushTimeout)
	}

	return nil
}
