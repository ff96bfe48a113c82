package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/internal/csvlog"
	"github.com/netlogs/netincident/internal/detect"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultNetwatchPath      = "netwatch_log.csv"
	DefaultFritzPath         = "fritz_status_log.csv"
	DefaultOutputCSV         = "incidents.csv"
	DefaultLatencyMs         = detect.DefaultLatencyMs
	DefaultLossPct           = detect.DefaultLossPct
	DefaultMergeGapSeconds   = 60.0
	DefaultHTTPPort          = 8080
	DefaultBroadcastInterval = 30 * time.Second
	DefaultHistory           = 20
)

// Config is the top-level configuration.
// Fields map 1:1 to netincident.example.yaml.
type Config struct {
	Inputs     InputsConfig     `yaml:"inputs"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Output     OutputConfig     `yaml:"output"`
	Server     ServerConfig     `yaml:"server"`
}

// InputsConfig locates the two probe logs.
type InputsConfig struct {
	// Netwatch is the path of the PC-side probe log.
	Netwatch string `yaml:"netwatch"`

	// Fritz is the path of the router status log.
	Fritz string `yaml:"fritz"`

	// TimestampColumn names the time column in both logs.
	TimestampColumn string `yaml:"timestamp_column"`

	// Timezone is an IANA zone name for timestamps without an offset.
	// Empty means the local zone.
	Timezone string `yaml:"timezone"`
}

// Location resolves Timezone. It returns time.Local for an empty value.
func (i InputsConfig) Location() (*time.Location, error) {
	if i.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(i.Timezone)
}

// ThresholdsConfig holds the detection and merge thresholds.
type ThresholdsConfig struct {
	// LatencyMs: average ping above this is a latency spike.
	LatencyMs float64 `yaml:"latency_ms"`

	// LossPct: packet loss above this percentage is a loss spike.
	LossPct float64 `yaml:"loss_pct"`

	// MergeGapSeconds is the largest gap between two events of the same
	// group that still folds them into one incident.
	MergeGapSeconds float64 `yaml:"merge_gap_seconds"`
}

// MergeGap returns MergeGapSeconds as a Duration.
func (t ThresholdsConfig) MergeGap() time.Duration {
	return time.Duration(t.MergeGapSeconds * float64(time.Second))
}

// OutputConfig lists the files written by the analyze command. Empty paths
// disable that output; CSV defaults to incidents.csv.
type OutputConfig struct {
	CSV     string `yaml:"csv"`
	HTML    string `yaml:"html"`
	Metrics string `yaml:"metrics"`
}

// ServerConfig holds the serve-mode settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and /metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the current report is re-sent to
	// WebSocket clients in addition to the push after every re-analysis.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// History is the number of past run summaries kept in memory.
	History int `yaml:"history"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			Netwatch:        DefaultNetwatchPath,
			Fritz:           DefaultFritzPath,
			TimestampColumn: csvlog.DefaultTimestampColumn,
		},
		Thresholds: ThresholdsConfig{
			LatencyMs:       DefaultLatencyMs,
			LossPct:         DefaultLossPct,
			MergeGapSeconds: DefaultMergeGapSeconds,
		},
		Output: OutputConfig{
			CSV: DefaultOutputCSV,
		},
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
			History:           DefaultHistory,
		},
	}
}

// Validate checks required fields and numeric ranges.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Inputs.Netwatch == "" {
		return fmt.Errorf("inputs.netwatch is required")
	}
	if cfg.Inputs.Fritz == "" {
		return fmt.Errorf("inputs.fritz is required")
	}
	if cfg.Inputs.TimestampColumn == "" {
		return fmt.Errorf("inputs.timestamp_column must not be empty")
	}
	if _, err := cfg.Inputs.Location(); err != nil {
		return fmt.Errorf("inputs.timezone %q: %w", cfg.Inputs.Timezone, err)
	}
	if cfg.Thresholds.LatencyMs < 0 {
		return fmt.Errorf("thresholds.latency_ms must not be negative")
	}
	if cfg.Thresholds.LossPct < 0 {
		return fmt.Errorf("thresholds.loss_pct must not be negative")
	}
	if cfg.Thresholds.MergeGapSeconds < 0 {
		return fmt.Errorf("thresholds.merge_gap_seconds must not be negative")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if cfg.Server.History <= 0 {
		return fmt.Errorf("server.history must be positive")
	}
	return nil
}

// AnalyzeInputs converts the inputs section for analyze.RunFiles.
func (c *Config) AnalyzeInputs() (analyze.Inputs, error) {
	loc, err := c.Inputs.Location()
	if err != nil {
		return analyze.Inputs{}, fmt.Errorf("config: timezone: %w", err)
	}
	return analyze.Inputs{
		NetwatchPath: c.Inputs.Netwatch,
		FritzPath:    c.Inputs.Fritz,
		CSV: csvlog.Options{
			TimestampColumn: c.Inputs.TimestampColumn,
			Location:        loc,
		},
	}, nil
}

// AnalyzeOptions converts the thresholds section for analyze.Run.
func (c *Config) AnalyzeOptions() analyze.Options {
	return analyze.Options{
		Thresholds: detect.Thresholds{
			LatencyMs: c.Thresholds.LatencyMs,
			LossPct:   c.Thresholds.LossPct,
		},
		MergeGap: c.Thresholds.MergeGap(),
	}
}
