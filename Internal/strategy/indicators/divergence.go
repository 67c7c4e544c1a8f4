package indicators

// Divergence states between price and RSI.
const (
	DivergenceBullish = "bullish_div"
	DivergenceBearish = "bearish_div"
	DivergenceNone    = "none"
)

// pivot is a local extreme with its bar index.
type pivot struct {
	index int
	value float64
}

// DetectRSIDivergence compares the two most recent price pivots against
// their RSI readings inside the last lookback bars.
//
// Bullish: price prints a lower low while RSI prints a higher low.
// Bearish: price prints a higher high while RSI prints a lower high.
// Pivots use a 5-point strict-inequality window; fewer than two qualifying
// pivots on both sides means no divergence.
func DetectRSIDivergence(closes, rsiValues []float64, lookback int) string {
	if len(closes) != len(rsiValues) || len(closes) < 5 {
		return DivergenceNone
	}

	start := len(closes) - lookback
	if start < 0 {
		start = 0
	}
	window := closes[start:]
	rsiWindow := rsiValues[start:]

	lows := findPivots(window, true)
	if len(lows) >= 2 {
		prev, last := lows[len(lows)-2], lows[len(lows)-1]
		if last.value < prev.value && rsiWindow[last.index] > rsiWindow[prev.index] {
			return DivergenceBullish
		}
	}

	highs := findPivots(window, false)
	if len(highs) >= 2 {
		prev, last := highs[len(highs)-2], highs[len(highs)-1]
		if last.value > prev.value && rsiWindow[last.index] < rsiWindow[prev.index] {
			return DivergenceBearish
		}
	}

	return DivergenceNone
}

// findPivots locates 5-point local extrema: v[i] strictly beyond both
// neighbors on each side.
func findPivots(values []float64, findLows bool) []pivot {
	pivots := []pivot{}
	for i := 2; i < len(values)-2; i++ {
		v := values[i]
		if findLows {
			if v < values[i-1] && v < values[i-2] && v < values[i+1] && v < values[i+2] {
				pivots = append(pivots, pivot{index: i, value: v})
			}
		} else {
			if v > values[i-1] && v > values[i-2] && v > values[i+1] && v > values[i+2] {
				pivots = append(pivots, pivot{index: i, value: v})
			}
		}
	}
	return pivots
}
