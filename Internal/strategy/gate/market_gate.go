package gate

import (
	"fmt"
	"math"

	"github.com/fazecat/coinpulse/Internal/strategy/indicators"
	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils"
	"github.com/fazecat/coinpulse/Internal/utils/config"
)

// Gate classifications.
const (
	GateGreen  = "GREEN"
	GateYellow = "YELLOW"
	GateRed    = "RED"
)

const minPrimaryBars = 200

// Components are the five weighted sub-scores, rounded to 0.1.
// Their sum reproduces Score exactly (before the final integer rounding).
type Components struct {
	Trend         float64 `json:"trend"`
	Volatility    float64 `json:"volatility"`
	Participation float64 `json:"participation"`
	Breadth       float64 `json:"breadth"`
	Leverage      float64 `json:"leverage"`
}

// Metrics exposes every raw value the score was derived from, so a stored
// result can be audited without re-running the evaluation.
type Metrics struct {
	Price           float64            `json:"price"`
	EMA50           float64            `json:"ema50"`
	EMA200          float64            `json:"ema200"`
	EMA200SlopePct  *float64           `json:"ema200_slope_pct_20,omitempty"`
	ATRPct          *float64           `json:"atrp_14_pct,omitempty"`
	VolumeZ         *float64           `json:"volume_z_50,omitempty"`
	BreadthRatio    *float64           `json:"breadth_above_ema50,omitempty"`
	QualifyingPeers int                `json:"qualifying_peers"`
	FundingRate     *float64           `json:"funding_rate,omitempty"`
	FearGreed       *float64           `json:"fear_greed_index,omitempty"`
	Components      Components         `json:"components"`
	Extra           map[string]float64 `json:"extra_metrics,omitempty"`
}

// Result is one market-health evaluation. Immutable; owned by the caller.
type Result struct {
	Gate    string   `json:"gate"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Metrics Metrics  `json:"metrics"`
}

// ExternalSignals are scalars supplied by the caller. FundingRate feeds the
// leverage component; FearGreed is recorded in metrics only.
type ExternalSignals struct {
	FundingRate *float64
	FearGreed   *float64
}

// Evaluator scores overall market health on a 0-100 scale:
// trend 0-35, volatility 0-18, participation 0-18, breadth 0-18,
// leverage 0-11.
type Evaluator struct {
	Thresholds     config.GateThresholds
	VerboseLogging bool
}

func NewEvaluator(t config.GateThresholds) *Evaluator {
	return &Evaluator{Thresholds: t}
}

// Evaluate scores the primary series against its peer basket. A primary
// series under 200 bars is the only hard failure and still returns a typed
// result (RED, score 0) rather than an error.
func (e *Evaluator) Evaluate(primary []types.Candle, peers map[string][]types.Candle, ext ExternalSignals) Result {
	if len(primary) < minPrimaryBars {
		return Result{
			Gate:    GateRed,
			Score:   0,
			Reasons: []string{"insufficient primary data"},
		}
	}

	reasons := []string{}
	closes := types.Closes(primary)
	volumes := types.Volumes(primary)

	e50 := indicators.EMA(closes, 50)
	e200 := indicators.EMA(closes, 200)

	price := closes[len(closes)-1]
	ema50 := e50[len(e50)-1]
	ema200 := e200[len(e200)-1]

	metrics := Metrics{
		Price:  price,
		EMA50:  ema50,
		EMA200: ema200,
	}

	var slope *float64
	if s, ok := indicators.SlopePct(e200, 20); ok {
		slope = &s
		metrics.EMA200SlopePct = &s
	}

	var atrPct *float64
	if atr := indicators.ATR(primary, indicators.DefaultATRPeriod); atr > 0 && price > 0 {
		p := atr / price * 100.0
		atrPct = &p
		metrics.ATRPct = &p
	}

	var volZ *float64
	if z, ok := indicators.ZScoreLast(volumes, 50); ok {
		volZ = &z
		metrics.VolumeZ = &z
	}

	var breadthRatio *float64
	ratio, qualifying, ok := BreadthAboveEMA50(peers)
	metrics.QualifyingPeers = qualifying
	if ok {
		breadthRatio = &ratio
		metrics.BreadthRatio = &ratio
	}

	metrics.FundingRate = ext.FundingRate
	metrics.FearGreed = ext.FearGreed

	trend := trendScore(price, ema50, ema200, slope, &reasons)
	volatility := volatilityScore(atrPct, &reasons)
	participation := participationScore(volZ, &reasons)
	breadth := breadthScore(breadthRatio, &reasons)
	leverage := leverageScore(ext.FundingRate, e.Thresholds, &reasons)

	metrics.Components = Components{
		Trend:         round1(trend),
		Volatility:    round1(volatility),
		Participation: round1(participation),
		Breadth:       round1(breadth),
		Leverage:      round1(leverage),
	}

	total := trend + volatility + participation + breadth + leverage
	score := int(math.Round(utils.Clamp(total, 0, 100)))

	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	if len(reasons) == 0 {
		reasons = []string{"conditions broadly favorable"}
	}

	if e.VerboseLogging {
		fmt.Printf("🧭 gate score=%d trend=%.1f vol=%.1f part=%.1f breadth=%.1f lev=%.1f\n",
			score, trend, volatility, participation, breadth, leverage)
	}

	return Result{
		Gate:    e.classify(score),
		Score:   score,
		Reasons: reasons,
		Metrics: metrics,
	}
}

func (e *Evaluator) classify(score int) string {
	switch {
	case score >= e.Thresholds.GreenCutoff:
		return GateGreen
	case score >= e.Thresholds.YellowCutoff:
		return GateYellow
	default:
		return GateRed
	}
}

// BreadthAboveEMA50 is the fraction of peers whose close sits above their
// own EMA50, counting only peers with at least 50 bars of history. ok is
// false with fewer than 3 qualifying peers.
func BreadthAboveEMA50(peers map[string][]types.Candle) (ratio float64, qualifying int, ok bool) {
	above := 0
	for _, candles := range peers {
		if len(candles) < 50 {
			continue
		}
		closes := types.Closes(candles)
		e50 := indicators.EMA(closes, 50)
		qualifying++
		if closes[len(closes)-1] > e50[len(e50)-1] {
			above++
		}
	}
	if qualifying < 3 {
		return 0, qualifying, false
	}
	return float64(above) / float64(qualifying), qualifying, true
}

// trendScore: 0-35. Stacked moving averages earn 22, price above EMA50
// alone earns 12; the 20-bar EMA200 slope adds up to 13 more.
func trendScore(price, ema50, ema200 float64, slope *float64, reasons *[]string) float64 {
	score := 0.0
	if price > ema50 && ema50 > ema200 {
		score += 22.0
	} else if price > ema50 {
		score += 12.0
		*reasons = append(*reasons, "price above EMA50 but below EMA200")
	} else {
		*reasons = append(*reasons, "price below EMA50 (downtrend)")
	}

	if slope != nil {
		switch {
		case *slope > 1.0:
			score += 13.0
		case *slope > 0:
			score += 8.0
		case *slope > -1.0:
			score += 3.0
			*reasons = append(*reasons, "EMA200 slope weak")
		default:
			*reasons = append(*reasons, "EMA200 declining")
		}
	}
	return score
}

// volatilityScore: 0-18, tighter ranges score higher. Unknown ATR is a
// neutral 9.
func volatilityScore(atrPct *float64, reasons *[]string) float64 {
	if atrPct == nil {
		return 9.0
	}
	switch {
	case *atrPct <= 2.0:
		return 18.0
	case *atrPct <= 3.5:
		return 14.0
	case *atrPct <= 5.0:
		*reasons = append(*reasons, "volatility elevated")
		return 8.0
	default:
		*reasons = append(*reasons, "volatility spiking")
		return 2.0
	}
}

// participationScore: 0-18 from the volume z-score. Unknown is a neutral 9.
func participationScore(volZ *float64, reasons *[]string) float64 {
	if volZ == nil {
		return 9.0
	}
	switch {
	case *volZ >= 1.0:
		return 18.0
	case *volZ >= 0.3:
		return 12.0
	case *volZ >= -0.3:
		*reasons = append(*reasons, "volume unremarkable")
		return 6.0
	default:
		*reasons = append(*reasons, "volume drying up")
		return 2.0
	}
}

// breadthScore: 0-18 from the peer basket. Unknown (too few qualifying
// peers) is a neutral 9.
func breadthScore(ratio *float64, reasons *[]string) float64 {
	if ratio == nil {
		return 9.0
	}
	switch {
	case *ratio >= 0.65:
		return 18.0
	case *ratio >= 0.50:
		return 12.0
	case *ratio >= 0.35:
		*reasons = append(*reasons, fmt.Sprintf("peer breadth weak (%.0f%%)", *ratio*100))
		return 6.0
	default:
		*reasons = append(*reasons, fmt.Sprintf("peer breadth collapsed (%.0f%%)", *ratio*100))
		return 2.0
	}
}

// leverageScore: 0-11 from the funding rate. The calm band scores 9,
// overheated positive funding 2, deeply negative funding 4, anything else
// known 6, unknown 5.5.
func leverageScore(funding *float64, t config.GateThresholds, reasons *[]string) float64 {
	if funding == nil {
		return 5.5
	}
	f := *funding
	switch {
	case f > t.CalmFundingMin && f < t.CalmFundingMax:
		return 9.0
	case f > t.OverheatedFundingMin:
		*reasons = append(*reasons, fmt.Sprintf("funding overheated (%.3f%%)", f*100))
		return 2.0
	case f < t.FearFundingMax:
		*reasons = append(*reasons, fmt.Sprintf("funding in fear (%.3f%%)", f*100))
		return 4.0
	default:
		return 6.0
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
