package config

import "testing"

func TestDefaultConfig_Thresholds(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Gate.GreenCutoff != 72 || cfg.Gate.YellowCutoff != 48 {
		t.Errorf("Unexpected gate cutoffs: %d/%d", cfg.Gate.GreenCutoff, cfg.Gate.YellowCutoff)
	}
	if cfg.VCP.MinBars != 150 {
		t.Errorf("Expected 150 minimum bars, got %d", cfg.VCP.MinBars)
	}
	if cfg.Screener.MaxConcurrent != 5 {
		t.Errorf("Expected concurrency 5, got %d", cfg.Screener.MaxConcurrent)
	}
	if cfg.Screener.PrimarySymbol != "BTC/USD" {
		t.Errorf("Expected BTC/USD primary, got %s", cfg.Screener.PrimarySymbol)
	}
}

func TestLoadConfig_MatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Gate.GreenCutoff != defaults.Gate.GreenCutoff {
		t.Errorf("Expected green cutoff %d, got %d", defaults.Gate.GreenCutoff, cfg.Gate.GreenCutoff)
	}
	if cfg.VCP.DryUpRatio != defaults.VCP.DryUpRatio {
		t.Errorf("Expected dry-up ratio %f, got %f", defaults.VCP.DryUpRatio, cfg.VCP.DryUpRatio)
	}
	if len(cfg.Screener.Symbols) == 0 {
		t.Error("Expected a non-empty symbol basket")
	}
}
