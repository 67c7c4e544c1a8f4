package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the single source of truth for every scoring threshold.
// Values here are tuned numbers, not code, and stay out of the packages
// that consume them.
type Config struct {
	Screener ScreenerConfig `yaml:"screener"`
	Gate     GateThresholds `yaml:"gate"`
	VCP      VCPThresholds  `yaml:"vcp"`
}

type ScreenerConfig struct {
	Symbols       []string `yaml:"symbols"`
	PeerSymbols   []string `yaml:"peer_symbols"`
	PrimarySymbol string   `yaml:"primary_symbol"`
	MaxConcurrent int      `yaml:"max_concurrent"`
	HistoryBars   int      `yaml:"history_bars"`
	TopN          int      `yaml:"top_n"`
}

// GateThresholds drives the market-health classification.
type GateThresholds struct {
	GreenCutoff  int `yaml:"green_cutoff"`
	YellowCutoff int `yaml:"yellow_cutoff"`

	// Funding-rate bands (raw rate, e.g. 0.0005 = 0.05%).
	CalmFundingMin       float64 `yaml:"calm_funding_min"`
	CalmFundingMax       float64 `yaml:"calm_funding_max"`
	OverheatedFundingMin float64 `yaml:"overheated_funding_min"`
	FearFundingMax       float64 `yaml:"fear_funding_max"`
}

// VCPThresholds drives the contraction screener.
type VCPThresholds struct {
	MinBars       int     `yaml:"min_bars"`
	DryUpRatio    float64 `yaml:"dry_up_ratio"`
	SurgeRatio    float64 `yaml:"surge_ratio"`
	OverboughtRSI float64 `yaml:"overbought_rsi"`
	TightRangePct float64 `yaml:"tight_range_pct"`
	NonAlignedCap int     `yaml:"non_aligned_cap"`
	GradeA        int     `yaml:"grade_a"`
	GradeB        int     `yaml:"grade_b"`
	GradeC        int     `yaml:"grade_c"`
}

// DefaultConfig returns the compiled-in thresholds. LoadConfig falls back to
// these when no config.yaml is present, so binaries work without a file.
func DefaultConfig() *Config {
	return &Config{
		Screener: ScreenerConfig{
			Symbols: []string{
				"BTC/USD", "ETH/USD", "SOL/USD", "AVAX/USD", "LINK/USD",
				"DOGE/USD", "LTC/USD", "BCH/USD", "UNI/USD", "AAVE/USD",
				"DOT/USD", "SHIB/USD", "XTZ/USD", "GRT/USD", "SUSHI/USD",
			},
			PeerSymbols: []string{
				"ETH/USD", "SOL/USD", "AVAX/USD", "LINK/USD", "DOGE/USD",
				"LTC/USD", "BCH/USD", "UNI/USD", "AAVE/USD", "DOT/USD",
			},
			PrimarySymbol: "BTC/USD",
			MaxConcurrent: 5,
			HistoryBars:   260,
			TopN:          20,
		},
		Gate: GateThresholds{
			GreenCutoff:          72,
			YellowCutoff:         48,
			CalmFundingMin:       -0.0003,
			CalmFundingMax:       0.0005,
			OverheatedFundingMin: 0.001,
			FearFundingMax:       -0.0005,
		},
		VCP: VCPThresholds{
			MinBars:       150,
			DryUpRatio:    0.6,
			SurgeRatio:    1.8,
			OverboughtRSI: 75,
			TightRangePct: 5.0,
			NonAlignedCap: 85,
			GradeA:        80,
			GradeB:        65,
			GradeC:        50,
		},
	}
}

// LoadConfig looks for config.yaml in a few likely places and overlays it on
// the defaults. No file found is not an error.
func LoadConfig() (*Config, error) {
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	cfg := DefaultConfig()
	for _, path := range possiblePaths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, nil
}
