// Package common provides shared utilities for the gridaurora tools.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds common configuration for all applications.
type Config struct {
	ClickHouseHost     string `env:"CLICKHOUSE_HOST,default=localhost"`
	ClickHousePort     int    `env:"CLICKHOUSE_PORT,default=9000"`
	ClickHouseDatabase string `env:"CLICKHOUSE_DATABASE,default=solar"`
	ClickHouseUser     string `env:"CLICKHOUSE_USER,default=default"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`
	DataDir            string `env:"KI7MT_DATA_DIR,default=/var/lib/ki7mt-ai-lab"`
	CacheDir           string `env:"GRIDAURORA_CACHE_DIR"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`

	// Index sources
	RecentIndicesURL string        `env:"RECENT_INDICES_URL,default=ftp://ftp.swpc.noaa.gov/pub/weekly/RecentIndices.txt"`
	FortyFiveDayURL  string        `env:"FORTY_FIVE_DAY_URL,default=https://services.swpc.noaa.gov/text/45-day-ap-forecast.txt"`
	TwentyYearURL    string        `env:"TWENTY_YEAR_URL,default=https://sail.msfc.nasa.gov/solar_report_archives/May2016Rpt.pdf"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT,default=60s"`
	HTTPRetryCount   int           `env:"HTTP_RETRY_COUNT,default=0"`
}

// DefaultConfig returns configuration with defaults only, ignoring the
// process environment.
func DefaultConfig() *Config {
	cfg, err := LoadConfigFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		// Defaults are compile-time constants; a failure here is a tag typo.
		panic(err)
	}
	return cfg
}

// LoadConfig loads an optional dotenv file and then the process environment.
// An empty envFile or a missing file is not an error.
func LoadConfig(ctx context.Context, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return LoadConfigFrom(ctx, envconfig.OsLookuper())
}

// LoadConfigFrom resolves configuration through the given lookuper.
func LoadConfigFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// SolarDataDir returns the index cache directory path.
func (c *Config) SolarDataDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(c.DataDir, "solar")
}

// ClickHouseAddr returns host:port for the native protocol.
func (c *Config) ClickHouseAddr() string {
	return fmt.Sprintf("%s:%d", c.ClickHouseHost, c.ClickHousePort)
}

// Debug reports whether LOG_LEVEL asks for per-step diagnostics.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Logger returns the progress logger for LOG_LEVEL. The "error" and "quiet"
// levels discard progress output; errors still reach stderr through log.Fatal.
func (c *Config) Logger() *log.Logger {
	switch strings.ToLower(c.LogLevel) {
	case "error", "quiet":
		return log.New(io.Discard, "", 0)
	}
	return log.Default()
}
