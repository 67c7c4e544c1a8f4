package scanner

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/fazecat/coinpulse/Internal/strategy/detection"
	"github.com/fazecat/coinpulse/Internal/strategy/indicators"
	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils/config"
	"github.com/fazecat/coinpulse/Internal/utils/scoring"
)

// HistoryFetcher supplies candle history for one symbol. Implementations own
// all I/O, rate limiting, and retries; the scanner only fans out over them.
type HistoryFetcher interface {
	FetchCandles(ctx context.Context, symbol string, limit int) ([]types.Candle, error)
}

// BreakoutScore is one symbol's indicator snapshot plus its entry grade.
type BreakoutScore struct {
	Symbol   string               `json:"symbol"`
	Snapshot indicators.Snapshot  `json:"snapshot"`
	Quality  scoring.EntryQuality `json:"quality"`
	Volume   float64              `json:"volume"`
}

// BasketScanner fans per-symbol evaluations out over a bounded worker pool.
// One symbol's bad data never aborts the batch; it is logged and dropped.
type BasketScanner struct {
	Fetcher       HistoryFetcher
	Detector      *detection.VCPDetector
	MaxConcurrent int
	HistoryBars   int
	FetchTimeout  time.Duration
}

func NewBasketScanner(fetcher HistoryFetcher, screener config.ScreenerConfig, vcp config.VCPThresholds) *BasketScanner {
	maxConcurrent := screener.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &BasketScanner{
		Fetcher:       fetcher,
		Detector:      detection.NewVCPDetector(vcp),
		MaxConcurrent: maxConcurrent,
		HistoryBars:   screener.HistoryBars,
		FetchTimeout:  30 * time.Second,
	}
}

// ScanVCP screens every symbol for contraction setups and returns the
// candidates sorted by score (ties broken by latest volume).
func (s *BasketScanner) ScanVCP(ctx context.Context, symbols []string) []detection.VCPCandidate {
	results := make([]detection.VCPCandidate, 0, len(symbols))
	var mu sync.Mutex

	s.forEachSymbol(ctx, symbols, func(symbol string, candles []types.Candle) {
		candidate := s.Detector.Screen(symbol, candles)
		if candidate == nil {
			return
		}
		mu.Lock()
		results = append(results, *candidate)
		mu.Unlock()
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Volume > results[j].Volume
	})
	return results
}

// ScanBreakouts computes a full indicator snapshot and entry grade per
// symbol, sorted by grade score (ties broken by volume).
func (s *BasketScanner) ScanBreakouts(ctx context.Context, symbols []string) []BreakoutScore {
	results := make([]BreakoutScore, 0, len(symbols))
	var mu sync.Mutex

	s.forEachSymbol(ctx, symbols, func(symbol string, candles []types.Candle) {
		if len(candles) == 0 || types.LastClose(candles) <= 0 {
			return
		}
		snap := indicators.BuildSnapshot(candles)
		quality := scoring.GradeEntry(snap.RiskReward, snap.RSI, snap.MACD.Crossover, snap.Divergence)

		mu.Lock()
		results = append(results, BreakoutScore{
			Symbol:   symbol,
			Snapshot: snap,
			Quality:  quality,
			Volume:   candles[len(candles)-1].Volume,
		})
		mu.Unlock()
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].Quality.Score != results[j].Quality.Score {
			return results[i].Quality.Score > results[j].Quality.Score
		}
		return results[i].Volume > results[j].Volume
	})
	return results
}

// FetchPeerHistories gathers the peer basket for breadth evaluation.
// Symbols that fail to fetch are simply absent from the map.
func (s *BasketScanner) FetchPeerHistories(ctx context.Context, symbols []string) map[string][]types.Candle {
	peers := make(map[string][]types.Candle, len(symbols))
	var mu sync.Mutex

	s.forEachSymbol(ctx, symbols, func(symbol string, candles []types.Candle) {
		mu.Lock()
		peers[symbol] = candles
		mu.Unlock()
	})
	return peers
}

// forEachSymbol runs fn for every symbol whose history fetch succeeds,
// with at most MaxConcurrent fetches in flight.
func (s *BasketScanner) forEachSymbol(ctx context.Context, symbols []string, fn func(symbol string, candles []types.Candle)) {
	sem := make(chan struct{}, s.MaxConcurrent)
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Panic screening %s: %v (symbol dropped)", symbol, r)
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx := ctx
			if s.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, s.FetchTimeout)
				defer cancel()
			}

			candles, err := s.Fetcher.FetchCandles(fetchCtx, symbol, s.HistoryBars)
			if err != nil {
				log.Printf("Error screening %s: %v", symbol, err)
				return
			}

			fn(symbol, types.SortCandles(candles))
		}(symbol)
	}
	wg.Wait()
}
