package types

import "sort"

// Candle is one OHLCV bar. Timestamp is unix milliseconds.
// Crypto venues report volume as a float.
type Candle struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// SortCandles returns the series sorted ascending by timestamp with
// duplicate timestamps removed (last write wins). Every indicator assumes
// its input went through this first.
func SortCandles(candles []Candle) []Candle {
	if len(candles) == 0 {
		return candles
	}

	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	deduped := sorted[:1]
	for _, c := range sorted[1:] {
		if c.Timestamp == deduped[len(deduped)-1].Timestamp {
			deduped[len(deduped)-1] = c
			continue
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// Closes extracts the close series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts the volume series.
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty series.
func LastClose(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	return candles[len(candles)-1].Close
}
