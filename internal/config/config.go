package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Schedule ScheduleConfig `toml:"schedule"`
	Listing  ListingConfig  `toml:"listing"`
	Search   SearchConfig   `toml:"search"`
	Filter   FilterConfig   `toml:"filter"`
	Risk     RiskConfig     `toml:"risk"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

type ScheduleConfig struct {
	ScanInterval    Duration `toml:"scan_interval"`
	ResolveInterval Duration `toml:"resolve_interval"`
	ReportInterval  Duration `toml:"report_interval"`
}

type ListingConfig struct {
	Source         string   `toml:"source"` // "gamma" or "manifold"
	GammaBaseURL   string   `toml:"gamma_base_url"`
	MaxEvents      int      `toml:"max_events"`
	RequestTimeout Duration `toml:"request_timeout"`
	RequestsPerSec float64  `toml:"requests_per_sec"`
}

type SearchConfig struct {
	BaseURL    string   `toml:"base_url"`
	Timeout    Duration `toml:"timeout"`
	MaxResults int      `toml:"max_results"`
}

type FilterConfig struct {
	DaysAhead int `toml:"days_ahead"`
}

type RiskConfig struct {
	MinEdge          float64 `toml:"min_edge"`
	MinConfidence    float64 `toml:"min_confidence"`
	MaxTradeSize     float64 `toml:"max_trade_size"`
	MaxOpenPositions int     `toml:"max_open_positions"`
	BaseSize         float64 `toml:"base_size"`
	ConfidenceScale  float64 `toml:"confidence_scale"`
}

type PipelineConfig struct {
	Workers int `toml:"workers"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/edgehound.db",
			LogLevel: "info",
		},
		Schedule: ScheduleConfig{
			ScanInterval:    Duration{24 * time.Hour},
			ResolveInterval: Duration{6 * time.Hour},
			ReportInterval:  Duration{24 * time.Hour},
		},
		Listing: ListingConfig{
			Source:         "gamma",
			GammaBaseURL:   "https://gamma-api.polymarket.com",
			MaxEvents:      100,
			RequestTimeout: Duration{10 * time.Second},
			RequestsPerSec: 5,
		},
		Search: SearchConfig{
			BaseURL:    "https://api.tavily.com",
			Timeout:    Duration{30 * time.Second},
			MaxResults: 5,
		},
		Filter: FilterConfig{
			DaysAhead: 30,
		},
		Risk: RiskConfig{
			MinEdge:          0.10,
			MinConfidence:    0.65,
			MaxTradeSize:     50,
			MaxOpenPositions: 5,
			BaseSize:         10,
			ConfidenceScale:  40,
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
	}
}
