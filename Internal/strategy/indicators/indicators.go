package indicators

import (
	"math"

	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils"
)

// MACD crossover states.
const (
	CrossBullish = "bullish_cross"
	CrossBearish = "bearish_cross"
	CrossNeutral = "neutral"
)

// EMA computes an exponential moving average series.
// Smoothing factor k = 2/(span+1), seeded with the first value.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	k := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// SMA averages the last period values. Shorter series average what exists.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}
	return utils.Average(values[len(values)-period:])
}

// ATR is the rolling mean of true range over the last period bars.
// True range = max(high-low, |high-prevClose|, |low-prevClose|).
// Returns 0 when fewer than period+1 bars exist (callers treat 0 as unknown).
func ATR(candles []types.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 0
	}

	trueRanges := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		high := candles[i].High
		low := candles[i].Low
		prevClose := candles[i-1].Close
		tr := utils.Max(high-low, utils.Abs(high-prevClose), utils.Abs(low-prevClose))
		trueRanges = append(trueRanges, tr)
	}

	return utils.Average(trueRanges[len(trueRanges)-period:])
}

// RSI computes a Wilder-smoothed RSI series (alpha = 1/period).
// Index 0 has no delta and is NaN. A series with zero average gain AND zero
// average loss reads 50 (flat market is neutral, not overbought).
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = math.NaN()
	if len(values) < 2 {
		return out
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64

	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		if i == 1 {
			avgGain = gain
			avgLoss = loss
		} else {
			avgGain = avgGain*(1-alpha) + gain*alpha
			avgLoss = avgLoss*(1-alpha) + loss*alpha
		}

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50.0
		case avgLoss == 0:
			out[i] = 100.0
		default:
			rs := avgGain / avgLoss
			out[i] = 100.0 - 100.0/(1.0+rs)
		}
	}
	return out
}

// LastRSI is the final RSI value, or 50 when the series is too short to
// produce one.
func LastRSI(values []float64, period int) float64 {
	series := RSI(values, period)
	if len(series) < 2 {
		return 50.0
	}
	return series[len(series)-1]
}

// MACDResult holds the latest MACD state.
type MACDResult struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Crossover string  `json:"crossover"`
}

// MACD computes line = EMA(fast) - EMA(slow), its signal EMA, and the
// crossover state of the last two bars. Fewer than 2 bars yields a neutral
// crossover.
func MACD(closes []float64, fast, slow, signalSpan int) MACDResult {
	result := MACDResult{Crossover: CrossNeutral}
	if len(closes) == 0 {
		return result
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signal := EMA(line, signalSpan)

	n := len(closes) - 1
	result.Line = line[n]
	result.Signal = signal[n]
	result.Histogram = line[n] - signal[n]

	if n >= 1 {
		prevAbove := line[n-1] > signal[n-1]
		currAbove := line[n] > signal[n]
		if !prevAbove && currAbove {
			result.Crossover = CrossBullish
		} else if prevAbove && !currAbove {
			result.Crossover = CrossBearish
		}
	}
	return result
}

// BollingerBands holds the latest band values plus the normalized position
// of price inside the band (0 = lower band, 1 = upper band).
type BollingerBands struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	Position float64 `json:"position"`
}

// Bollinger computes period-bar bands at k standard deviations. A series
// shorter than period collapses to a zero-width band at the last price,
// which reads as the neutral 0.5 position.
func Bollinger(closes []float64, period int, k float64) BollingerBands {
	if len(closes) == 0 {
		return BollingerBands{Position: 0.5}
	}

	price := closes[len(closes)-1]
	if len(closes) < period {
		return BollingerBands{Upper: price, Middle: price, Lower: price, Position: 0.5}
	}

	window := closes[len(closes)-period:]
	middle := utils.Average(window)

	variance := 0.0
	for _, v := range window {
		variance += (v - middle) * (v - middle)
	}
	sd := math.Sqrt(variance / float64(len(window)))

	bands := BollingerBands{
		Upper:  middle + k*sd,
		Middle: middle,
		Lower:  middle - k*sd,
	}

	width := bands.Upper - bands.Lower
	if width <= 0 {
		bands.Position = 0.5
	} else {
		bands.Position = utils.Clamp((price-bands.Lower)/width, 0, 1)
	}
	return bands
}

// RelativeVolume is the last volume over the trailing period-bar mean.
// Returns 1.0 when there are not enough samples or the mean is zero.
func RelativeVolume(volumes []float64, period int) float64 {
	if len(volumes) < period {
		return 1.0
	}
	avg := utils.Average(volumes[len(volumes)-period:])
	if avg <= 0 {
		return 1.0
	}
	return volumes[len(volumes)-1] / avg
}

// SupportResistance holds the nearest levels around the current price and
// their signed distances as a percentage of price.
type SupportResistance struct {
	Support           float64 `json:"support"`
	Resistance        float64 `json:"resistance"`
	SupportDistPct    float64 `json:"support_distance_pct"`
	ResistanceDistPct float64 `json:"resistance_distance_pct"`
}

// FindSupportResistance scans the last lookback bars. Resistance is the
// lowest recent high strictly above the current price (fallback price*1.05);
// support is the highest recent low strictly below it (fallback price*0.95).
func FindSupportResistance(candles []types.Candle, lookback int) SupportResistance {
	price := types.LastClose(candles)
	sr := SupportResistance{
		Support:    price * 0.95,
		Resistance: price * 1.05,
	}
	if price <= 0 {
		return sr
	}

	start := len(candles) - lookback
	if start < 0 {
		start = 0
	}

	foundSupport, foundResistance := false, false
	for _, c := range candles[start:] {
		if c.High > price && (!foundResistance || c.High < sr.Resistance) {
			sr.Resistance = c.High
			foundResistance = true
		}
		if c.Low < price && (!foundSupport || c.Low > sr.Support) {
			sr.Support = c.Low
			foundSupport = true
		}
	}

	sr.SupportDistPct = (sr.Support - price) / price * 100
	sr.ResistanceDistPct = (sr.Resistance - price) / price * 100
	return sr
}

// RiskReward is (resistance-current)/(current-support). Degenerate geometry
// (price outside or on either level) returns 0.
func RiskReward(current, support, resistance float64) float64 {
	reward := resistance - current
	risk := current - support
	if reward <= 0 || risk <= 0 {
		return 0.0
	}
	return reward / risk
}

// ZScoreLast computes the z-score of the latest value against the trailing
// window-bar distribution. ok is false when fewer than window+5 samples
// exist; a zero-variance window reads as z=0.
func ZScoreLast(values []float64, window int) (z float64, ok bool) {
	if len(values) < window+5 {
		return 0, false
	}

	tail := values[len(values)-window:]
	mu := utils.Average(tail)
	variance := 0.0
	for _, v := range tail {
		variance += (v - mu) * (v - mu)
	}
	sd := math.Sqrt(variance / float64(len(tail)))
	if sd <= 0 {
		return 0, true
	}
	return (tail[len(tail)-1] - mu) / sd, true
}

// SlopePct is the percentage change of a series over the last lookback bars.
// ok is false when the history is too short or the base value is zero.
func SlopePct(values []float64, lookback int) (slope float64, ok bool) {
	if len(values) < lookback+2 {
		return 0, false
	}
	a := values[len(values)-1]
	b := values[len(values)-1-lookback]
	if b == 0 {
		return 0, false
	}
	return (a - b) / b * 100.0, true
}
