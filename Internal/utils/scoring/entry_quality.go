package scoring

import (
	"fmt"

	"github.com/fazecat/coinpulse/Internal/strategy/indicators"
)

// EntryQuality is the composite entry grade for one symbol.
type EntryQuality struct {
	Score   int      `json:"score"`
	Grade   string   `json:"grade"`
	Reasons []string `json:"reasons"`
}

// GradeEntry accumulates a signed score from risk/reward, RSI zone, MACD
// crossover, and divergence, then maps it to A/B/C/D.
//
// Weight table: R/R >=3 +3, >=2 +2, >=1 +1; RSI <30 +2, <40 +1, >70 -1;
// bullish cross +2, bearish cross -2; bullish divergence +3, bearish -3.
func GradeEntry(riskReward, rsi float64, macdCrossover, divergence string) EntryQuality {
	score := 0
	reasons := []string{}

	switch {
	case riskReward >= 3:
		score += 3
		reasons = append(reasons, fmt.Sprintf("risk/reward %.1f:1 (excellent)", riskReward))
	case riskReward >= 2:
		score += 2
		reasons = append(reasons, fmt.Sprintf("risk/reward %.1f:1 (good)", riskReward))
	case riskReward >= 1:
		score += 1
		reasons = append(reasons, fmt.Sprintf("risk/reward %.1f:1", riskReward))
	}

	switch {
	case rsi < 30:
		score += 2
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.0f)", rsi))
	case rsi < 40:
		score += 1
		reasons = append(reasons, fmt.Sprintf("RSI constructive (%.0f)", rsi))
	case rsi > 70:
		score -= 1
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.0f)", rsi))
	}

	switch macdCrossover {
	case indicators.CrossBullish:
		score += 2
		reasons = append(reasons, "MACD bullish crossover")
	case indicators.CrossBearish:
		score -= 2
		reasons = append(reasons, "MACD bearish crossover")
	}

	switch divergence {
	case indicators.DivergenceBullish:
		score += 3
		reasons = append(reasons, "bullish RSI divergence")
	case indicators.DivergenceBearish:
		score -= 3
		reasons = append(reasons, "bearish RSI divergence")
	}

	return EntryQuality{
		Score:   score,
		Grade:   gradeFor(score),
		Reasons: reasons,
	}
}

func gradeFor(score int) string {
	switch {
	case score >= 6:
		return "A"
	case score >= 4:
		return "B"
	case score >= 2:
		return "C"
	default:
		return "D"
	}
}
