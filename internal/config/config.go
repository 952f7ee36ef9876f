// Package config defines fbmetrics configuration and its layered loader.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pable/go-football-metrics/internal/statsbomb"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite store of aggregation runs.
	DBPath string `koanf:"db_path"`

	// DataDir is where fetched events and CSV exports are written.
	DataDir string `koanf:"data_dir"`

	// OutputPrefix starts every exported file name.
	OutputPrefix string `koanf:"output_prefix"`

	// StatsBombBaseURL and RequestsPerMinute configure the open-data client.
	StatsBombBaseURL  string `koanf:"statsbomb_base_url"`
	RequestsPerMinute int    `koanf:"requests_per_minute"`

	// CompetitionID and SeasonID select the season to fetch (2/27 is the
	// Premier League 2015/2016).
	CompetitionID int `koanf:"competition_id"`
	SeasonID      int `koanf:"season_id"`

	// TopN sizes the top scorers export; SummaryTopN the summary boards.
	TopN        int `koanf:"top_n"`
	SummaryTopN int `koanf:"summary_top_n"`

	// MinPassesForAccuracy is the volume floor of the pass completion board.
	MinPassesForAccuracy int `koanf:"min_passes_for_accuracy"`

	// Shards > 1 enables parallel ingestion sharded by player.
	Shards int `koanf:"shards"`

	// Addr is the HTTP listen address of `serve`.
	Addr string `koanf:"addr"`

	// CORSAllowOrigins is a comma-separated origin list for the API.
	CORSAllowOrigins string `koanf:"cors_allow_origins"`

	// MetricsFile, when set, receives a Prometheus textfile after aggregation.
	MetricsFile string `koanf:"metrics_file"`

	// AnthropicModel is the model used by `analyze`.
	AnthropicModel string `koanf:"anthropic_model"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		DBPath:               filepath.Join(userHome(), ".fbmetrics", "metrics.db"),
		DataDir:              "data",
		OutputPrefix:         "pl_2015_2016",
		StatsBombBaseURL:     statsbomb.DefaultBaseURL,
		RequestsPerMinute:    120,
		CompetitionID:        2,
		SeasonID:             27,
		TopN:                 20,
		SummaryTopN:          5,
		MinPassesForAccuracy: 500,
		Shards:               1,
		Addr:                 ":8090",
		CORSAllowOrigins:     "*",
		AnthropicModel:       "claude-sonnet-4-5",
	}
}

// Origins splits CORSAllowOrigins.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Config) Validate(_ context.Context) error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RequestsPerMinute < 0:
		return fmt.Errorf("%w: requests_per_minute must be >= 0", ErrInvalidConfig)
	case c.TopN <= 0 || c.SummaryTopN <= 0:
		return fmt.Errorf("%w: top_n and summary_top_n must be > 0", ErrInvalidConfig)
	case c.MinPassesForAccuracy < 0:
		return fmt.Errorf("%w: min_passes_for_accuracy must be >= 0", ErrInvalidConfig)
	case c.Shards < 1:
		return fmt.Errorf("%w: shards must be >= 1", ErrInvalidConfig)
	case c.CompetitionID <= 0 || c.SeasonID <= 0:
		return fmt.Errorf("%w: competition_id and season_id must be > 0", ErrInvalidConfig)
	}
	return nil
}
