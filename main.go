package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/coinpulse/Internal/database"
	"github.com/fazecat/coinpulse/Internal/strategy/gate"
	"github.com/fazecat/coinpulse/Internal/utils/config"
	"github.com/fazecat/coinpulse/Internal/utils/formatting"
	"github.com/fazecat/coinpulse/Internal/utils/scanner"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	persist := true
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, results will not be persisted: %v", err)
		persist = false
	} else {
		defer datafeed.CloseDatabase()
	}

	fetcher := datafeed.NewAlpacaFetcher()
	basketScanner := scanner.NewBasketScanner(fetcher, cfg.Screener, cfg.VCP)
	evaluator := gate.NewEvaluator(cfg.Gate)
	evaluator.VerboseLogging = os.Getenv("VERBOSE") == "1"

	ctx := context.Background()

	fmt.Println(formatting.Separator(70))
	fmt.Println("🪙 CoinPulse market scan")
	fmt.Println(formatting.Separator(70))

	// Market gate first: primary symbol trend plus peer breadth
	primary := cfg.Screener.PrimarySymbol
	primaryCandles, err := fetcher.FetchCandles(ctx, primary, cfg.Screener.HistoryBars)
	if err != nil {
		log.Fatalf("Failed to fetch %s history: %v", primary, err)
	}
	peers := basketScanner.FetchPeerHistories(ctx, cfg.Screener.PeerSymbols)

	gateResult := evaluator.Evaluate(primaryCandles, peers, externalSignalsFromEnv())
	fmt.Println(formatting.FormatGateResult(gateResult))

	if gateResult.Gate == gate.GateRed {
		fmt.Println("⚠️  Market gate is RED, treat all setups as watch-only")
	}

	// VCP screen over the full basket
	fmt.Println(formatting.Separator(70))
	fmt.Printf("📊 VCP screen (%d symbols)\n", len(cfg.Screener.Symbols))
	candidates := basketScanner.ScanVCP(ctx, cfg.Screener.Symbols)
	if len(candidates) > cfg.Screener.TopN {
		candidates = candidates[:cfg.Screener.TopN]
	}
	if len(candidates) == 0 {
		fmt.Println("No candidates passed the screen")
	}
	for _, c := range candidates {
		fmt.Println(formatting.FormatCandidate(c))
	}

	// Entry-quality pass over the same basket
	fmt.Println(formatting.Separator(70))
	fmt.Println("🎯 Entry quality")
	entries := basketScanner.ScanBreakouts(ctx, cfg.Screener.Symbols)
	if len(entries) > cfg.Screener.TopN {
		entries = entries[:cfg.Screener.TopN]
	}
	for _, e := range entries {
		fmt.Println(formatting.FormatEntry(e.Symbol, e.Snapshot, e.Quality))
	}
	fmt.Println(formatting.Separator(70))

	if persist {
		if err := datafeed.LogGateResult(gateResult); err != nil {
			log.Printf("Warning: could not persist gate result: %v", err)
		}
		if err := datafeed.LogVCPCandidates(candidates); err != nil {
			log.Printf("Warning: could not persist VCP candidates: %v", err)
		}
	}
}

// externalSignalsFromEnv reads the optional funding-rate and fear/greed
// inputs. Missing or unparsable values stay nil (treated as unknown).
func externalSignalsFromEnv() gate.ExternalSignals {
	var ext gate.ExternalSignals
	if raw := os.Getenv("FUNDING_RATE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ext.FundingRate = &v
		}
	}
	if raw := os.Getenv("FEAR_GREED"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ext.FearGreed = &v
		}
	}
	return ext
}
