package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"homedash/internal/charts"
	"homedash/internal/logger"
)

// Config holds all configuration for the dashboard chart service
type Config struct {
	// Server configuration
	Port        string   `env:"PORT,default=8980"`
	CORSOrigins []string `env:"CORS_ORIGINS,default=*"`

	// Chart configuration
	Theme         string `env:"CHART_THEME,default=dark"`
	DefaultFormat string `env:"DEFAULT_FORMAT,default=json"`
	PresetsFile   string `env:"PRESETS_FILE"`

	// Local output for the render command
	OutputDir string `env:"OUTPUT_DIR,default=./charts"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over .env entries.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check by type alone.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if _, err := charts.ThemeByName(c.Theme); err != nil {
		return fmt.Errorf("invalid CHART_THEME: %w", err)
	}
	if _, err := charts.ParseFormat(c.DefaultFormat); err != nil {
		return fmt.Errorf("invalid DEFAULT_FORMAT: %w", err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid LOG_FORMAT: %w", err)
	}
	return nil
}

// ChartTheme resolves the configured theme.
func (c *Config) ChartTheme() charts.Theme {
	theme, err := charts.ThemeByName(c.Theme)
	if err != nil {
		return charts.DarkTheme()
	}
	return theme
}

// Format resolves the configured default output format.
func (c *Config) Format() charts.Format {
	f, err := charts.ParseFormat(c.DefaultFormat)
	if err != nil {
		return charts.FormatJSON
	}
	return f
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
