package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/fazecat/coinpulse/Internal/strategy/detection"
	"github.com/fazecat/coinpulse/Internal/strategy/gate"
	"github.com/fazecat/coinpulse/Internal/strategy/indicators"
	"github.com/fazecat/coinpulse/Internal/utils/scoring"
)

// Separator returns a line separator of given width.
func Separator(width int) string {
	return strings.Repeat("=", width)
}

// FormatTimestamp renders a unix-ms candle timestamp for display.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}

// FormatGateResult renders a market-gate evaluation as a console block.
func FormatGateResult(res gate.Result) string {
	emoji := "🔴"
	switch res.Gate {
	case gate.GateGreen:
		emoji = "🟢"
	case gate.GateYellow:
		emoji = "🟡"
	}

	c := res.Metrics.Components
	out := fmt.Sprintf(`%s Market Gate: %s (%d/100)
   Trend: %.1f | Volatility: %.1f | Participation: %.1f | Breadth: %.1f | Leverage: %.1f`,
		emoji, res.Gate, res.Score,
		c.Trend, c.Volatility, c.Participation, c.Breadth, c.Leverage,
	)
	for _, reason := range res.Reasons {
		out += fmt.Sprintf("\n   - %s", reason)
	}
	return out
}

// FormatCandidate renders one VCP candidate as a single console line.
func FormatCandidate(c detection.VCPCandidate) string {
	marker := "⏳"
	switch c.SignalType {
	case detection.SignalBreakout:
		marker = "🚀"
	case detection.SignalRetestOK:
		marker = "✅"
	}

	return fmt.Sprintf("%s %-10s [%s %3d] %s pivot=%.4f price=%.4f (%.1f%%) c=%.1f/%.1f/%.1f dryup=%.2f",
		marker, c.Symbol, c.Grade, c.Score, c.SignalType,
		c.PivotPrice, c.CurrentPrice, c.BreakoutPct, c.C1, c.C2, c.C3, c.VolumeRatio,
	)
}

// FormatEntry renders one breakout-scan row.
func FormatEntry(symbol string, snap indicators.Snapshot, quality scoring.EntryQuality) string {
	out := fmt.Sprintf("%-10s [%s %+d] price=%.4f rsi=%.1f rvol=%.2f macd=%s bb=%.2f rr=%.1f",
		symbol, quality.Grade, quality.Score,
		snap.Price, snap.RSI, snap.RelVolume, snap.MACD.Crossover, snap.Bollinger.Position, snap.RiskReward,
	)
	if len(quality.Reasons) > 0 {
		out += " | " + strings.Join(quality.Reasons, "; ")
	}
	return out
}
