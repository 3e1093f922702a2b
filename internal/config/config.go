package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
)

// Config holds all poi-report configuration.
type Config struct {
	Server  ServerConfig      `yaml:"server"`
	Report  ReportConfig      `yaml:"report"`
	Zones   map[string]string `yaml:"zones"` // zone code -> display name
	Logging LoggingConfig     `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

// ReportConfig configures derived report values.
type ReportConfig struct {
	Title       string  `yaml:"title"`
	RankingSize int     `yaml:"ranking_size"` // wards in the best/worst lists
	ChartWidth  float64 `yaml:"chart_width"`  // inches
	ChartHeight float64 `yaml:"chart_height"` // inches
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	zones := make(map[string]string, len(aggregate.DefaultZoneNames))
	for code, name := range aggregate.DefaultZoneNames {
		zones[code] = name
	}

	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			BodyLimitMB: 32,
		},
		Report: ReportConfig{
			Title:       "POI Zone Wise Report",
			RankingSize: aggregate.DefaultRankingSize,
			ChartWidth:  6,
			ChartHeight: 4,
		},
		Zones: zones,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Zone entries in the file are merged over the default table.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Report.RankingSize < 0 {
		return fmt.Errorf("report.ranking_size must not be negative, got %d", c.Report.RankingSize)
	}
	if c.Report.ChartWidth <= 0 || c.Report.ChartHeight <= 0 {
		return fmt.Errorf("report chart size must be positive, got %vx%v", c.Report.ChartWidth, c.Report.ChartHeight)
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be positive, got %d", c.Server.BodyLimitMB)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POI_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("POI_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("POI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("POI_RANKING_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Report.RankingSize = n
		}
	}
}
