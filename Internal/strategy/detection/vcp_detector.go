package detection

import (
	"fmt"

	"github.com/fazecat/coinpulse/Internal/strategy/indicators"
	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils/config"
)

// SignalType tells the caller where price sits relative to the pivot.
type SignalType string

const (
	SignalBreakout    SignalType = "BREAKOUT"
	SignalRetestOK    SignalType = "RETEST_OK"
	SignalApproaching SignalType = "APPROACHING"
)

// Contraction measurement windows, widest to tightest.
const (
	c1Window = 30
	c2Window = 20
	c3Window = 10

	pivotWindow     = 20
	dryUpWindow     = 3
	volumeAvgWindow = 20
)

// VCPCandidate is one graded volatility-contraction setup.
type VCPCandidate struct {
	Symbol       string     `json:"symbol"`
	Score        int        `json:"score"`
	Grade        string     `json:"grade"`
	SignalType   SignalType `json:"signal_type"`
	PivotPrice   float64    `json:"pivot_price"`
	CurrentPrice float64    `json:"current_price"`
	BreakoutPct  float64    `json:"breakout_pct"`
	C1           float64    `json:"c1"`
	C2           float64    `json:"c2"`
	C3           float64    `json:"c3"`
	ATRPct       float64    `json:"atr_pct"`
	VolumeRatio  float64    `json:"volume_ratio"`
	Volume       float64    `json:"volume"`
	RSI          float64    `json:"rsi"`

	// PivotImminent marks a still-forming base whose tightest window is
	// already inside the actionable range.
	PivotImminent bool `json:"pivot_imminent"`
}

// VCPDetector screens a single symbol for a volatility-contraction setup:
// long-term uptrend template, tightening high-low ranges, volume dry-up,
// and distance to the pivot high.
type VCPDetector struct {
	Thresholds     config.VCPThresholds
	VerboseLogging bool
}

func NewVCPDetector(t config.VCPThresholds) *VCPDetector {
	return &VCPDetector{Thresholds: t}
}

// Screen grades one symbol. Returns nil when the series is too short or the
// latest price is not positive (skipped, not an error).
func (d *VCPDetector) Screen(symbol string, candles []types.Candle) *VCPCandidate {
	if len(candles) < d.Thresholds.MinBars {
		return nil
	}

	price := types.LastClose(candles)
	if price <= 0 {
		return nil
	}

	closes := types.Closes(candles)
	volumes := types.Volumes(candles)

	sma50 := indicators.SMA(closes, 50)
	sma150 := indicators.SMA(closes, 150)
	sma200 := indicators.SMA(closes, 200)
	aligned := sma150 > sma200

	histLow, histHigh := closes[0], closes[0]
	for _, c := range closes {
		if c < histLow {
			histLow = c
		}
		if c > histHigh {
			histHigh = c
		}
	}

	c1 := rangePct(candles, c1Window)
	c2 := rangePct(candles, c2Window)
	c3 := rangePct(candles, c3Window)
	tightening := c3 < c2 && c2 < c1
	contracting := c3 < c1*0.8

	volumeRatio := dryUpRatio(volumes)
	rsi := indicators.LastRSI(closes, indicators.DefaultRSIPeriod)

	// Trend template: soft signals, score adjustments rather than hard
	// rejects. Crypto ranges too wide for strict stage-2 screening.
	score := 20
	if price > sma50 {
		score += 8
	}
	if price > sma150 {
		score += 7
	}
	if price > sma200 {
		score += 5
	}
	if aligned {
		score += 10
	}
	if price >= histLow*1.25 {
		score += 5
	}
	if price >= histHigh*0.65 {
		score += 10
	}

	if contracting {
		score += 10
	}
	if tightening {
		score += 15
	}

	if volumeRatio < d.Thresholds.DryUpRatio {
		score += 10
	} else if volumeRatio > d.Thresholds.SurgeRatio {
		score += 5
	}

	if rsi >= 50 && rsi <= 70 {
		score += 5
	}
	if rsi > d.Thresholds.OverboughtRSI {
		score -= 10
	}

	if !aligned && score > d.Thresholds.NonAlignedCap {
		score = d.Thresholds.NonAlignedCap
	}
	if score > 99 {
		score = 99
	}
	if score < 10 {
		score = 10
	}

	// Pivot is the prior resistance level, so the current bar is excluded:
	// a close clearing every earlier high must read as a breakout.
	pivot := pivotHigh(candles[:len(candles)-1], pivotWindow)
	breakoutPct := 0.0
	if pivot > 0 {
		breakoutPct = (price - pivot) / pivot * 100.0
	}

	// APPROACHING is the weakest type, so bases wider than the tight-range
	// threshold carry it too.
	signal := SignalApproaching
	switch {
	case breakoutPct > 0:
		signal = SignalBreakout
	case breakoutPct > -2.0:
		signal = SignalRetestOK
	}
	pivotImminent := c3 <= d.Thresholds.TightRangePct && signal == SignalApproaching

	atrPct := 0.0
	if atr := indicators.ATR(candles, indicators.DefaultATRPeriod); atr > 0 {
		atrPct = atr / price * 100.0
	}

	candidate := &VCPCandidate{
		Symbol:        symbol,
		Score:         score,
		Grade:         d.gradeFor(score),
		SignalType:    signal,
		PivotPrice:    pivot,
		CurrentPrice:  price,
		BreakoutPct:   breakoutPct,
		C1:            c1,
		C2:            c2,
		C3:            c3,
		ATRPct:        atrPct,
		VolumeRatio:   volumeRatio,
		Volume:        volumes[len(volumes)-1],
		RSI:           rsi,
		PivotImminent: pivotImminent,
	}

	if d.VerboseLogging {
		fmt.Printf("🔎 %s: score=%d grade=%s signal=%s c=%.1f/%.1f/%.1f dryup=%.2f\n",
			symbol, candidate.Score, candidate.Grade, candidate.SignalType, c1, c2, c3, volumeRatio)
	}
	return candidate
}

func (d *VCPDetector) gradeFor(score int) string {
	switch {
	case score >= d.Thresholds.GradeA:
		return "A"
	case score >= d.Thresholds.GradeB:
		return "B"
	case score >= d.Thresholds.GradeC:
		return "C"
	default:
		return "D"
	}
}

// rangePct is the high-low range of the last window bars as a percentage of
// the window high.
func rangePct(candles []types.Candle, window int) float64 {
	start := len(candles) - window
	if start < 0 {
		start = 0
	}
	tail := candles[start:]
	if len(tail) == 0 {
		return 0
	}

	high, low := tail[0].High, tail[0].Low
	for _, c := range tail[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	if high <= 0 {
		return 0
	}
	return (high - low) / high * 100.0
}

// dryUpRatio compares the 3-bar mean volume against the 20-bar mean.
// Below ~0.6 reads as supply exhaustion.
func dryUpRatio(volumes []float64) float64 {
	if len(volumes) < volumeAvgWindow {
		return 1.0
	}
	recent := volumes[len(volumes)-dryUpWindow:]
	base := volumes[len(volumes)-volumeAvgWindow:]

	recentAvg, baseAvg := 0.0, 0.0
	for _, v := range recent {
		recentAvg += v
	}
	for _, v := range base {
		baseAvg += v
	}
	recentAvg /= float64(len(recent))
	baseAvg /= float64(len(base))

	if baseAvg <= 0 {
		return 1.0
	}
	return recentAvg / baseAvg
}

// pivotHigh is the highest high of the last window bars.
func pivotHigh(candles []types.Candle, window int) float64 {
	start := len(candles) - window
	if start < 0 {
		start = 0
	}
	high := 0.0
	for _, c := range candles[start:] {
		if c.High > high {
			high = c.High
		}
	}
	return high
}
