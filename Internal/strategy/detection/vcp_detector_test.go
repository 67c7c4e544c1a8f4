package detection

import (
	"testing"

	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils/config"
)

func bar(i int, close, high, low, volume float64) types.Candle {
	return types.Candle{
		Timestamp: int64(i) * 86400000,
		Open:      close,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

// contractingBase is a 250-bar uptrend into a plateau whose ranges tighten
// from 20 points to 4 while volume dries up over the final bars.
func contractingBase() []types.Candle {
	candles := make([]types.Candle, 0, 250)
	for i := 0; i < 200; i++ {
		close := 100 + 0.5*float64(i)
		candles = append(candles, bar(i, close, close+2, close-2, 1000))
	}
	for i := 200; i < 220; i++ {
		candles = append(candles, bar(i, 200, 205, 195, 1000))
	}
	for i := 220; i < 230; i++ {
		candles = append(candles, bar(i, 200, 210, 190, 1000))
	}
	for i := 230; i < 240; i++ {
		candles = append(candles, bar(i, 200, 206, 194, 1000))
	}
	for i := 240; i < 247; i++ {
		candles = append(candles, bar(i, 200, 202, 198, 1000))
	}
	for i := 247; i < 249; i++ {
		candles = append(candles, bar(i, 200, 202, 198, 400))
	}
	candles = append(candles, bar(249, 201, 202, 198, 400))
	return candles
}

func newTestDetector() *VCPDetector {
	return NewVCPDetector(config.DefaultConfig().VCP)
}

func TestScreen_ShortHistorySkipped(t *testing.T) {
	d := newTestDetector()
	candles := contractingBase()[:100]
	if got := d.Screen("BTC/USD", candles); got != nil {
		t.Errorf("Expected nil for a 100-bar series, got %+v", got)
	}
}

func TestScreen_NonPositivePriceSkipped(t *testing.T) {
	d := newTestDetector()
	candles := make([]types.Candle, 200)
	for i := range candles {
		candles[i] = bar(i, 0, 0, 0, 1000)
	}
	if got := d.Screen("BAD/USD", candles); got != nil {
		t.Errorf("Expected nil for a zero-price series, got %+v", got)
	}
}

func TestScreen_ContractingUptrendGradesA(t *testing.T) {
	d := newTestDetector()
	candidate := d.Screen("SOL/USD", contractingBase())
	if candidate == nil {
		t.Fatal("Expected a candidate")
	}

	// base 20, above SMA50/150/200 (+8+7+5), aligned (+10), above historical
	// low (+5), near historical high (+10), contracting (+10), tightening
	// (+15), dry-up (+10), overbought RSI from the loss-free series (-10).
	if candidate.Score != 90 {
		t.Errorf("Expected score 90, got %d", candidate.Score)
	}
	if candidate.Grade != "A" {
		t.Errorf("Expected grade A, got %s", candidate.Grade)
	}
	if !(candidate.C3 < candidate.C2 && candidate.C2 < candidate.C1) {
		t.Errorf("Expected tightening contractions, got %.2f/%.2f/%.2f",
			candidate.C1, candidate.C2, candidate.C3)
	}
	if candidate.VolumeRatio >= d.Thresholds.DryUpRatio {
		t.Errorf("Expected volume dry-up below %.2f, got %.2f",
			d.Thresholds.DryUpRatio, candidate.VolumeRatio)
	}
	if candidate.SignalType != SignalApproaching {
		t.Errorf("Expected %s below the pivot, got %s", SignalApproaching, candidate.SignalType)
	}
	if !candidate.PivotImminent {
		t.Errorf("Expected pivot imminent with c3 at %.2f%%", candidate.C3)
	}
}

func TestScreen_VolumeSurgeScoresLower(t *testing.T) {
	d := newTestDetector()
	candles := contractingBase()
	for i := len(candles) - 3; i < len(candles); i++ {
		candles[i].Volume = 2500
	}

	candidate := d.Screen("SOL/USD", candles)
	if candidate == nil {
		t.Fatal("Expected a candidate")
	}
	// Surge bonus (+5) replaces the dry-up bonus (+10).
	if candidate.Score != 85 {
		t.Errorf("Expected score 85 with a volume surge, got %d", candidate.Score)
	}
	if candidate.VolumeRatio <= d.Thresholds.SurgeRatio {
		t.Errorf("Expected a surge ratio above %.2f, got %.2f",
			d.Thresholds.SurgeRatio, candidate.VolumeRatio)
	}
}

func TestScreen_DowntrendGradesD(t *testing.T) {
	d := newTestDetector()
	candles := make([]types.Candle, 200)
	for i := range candles {
		close := 300 - float64(i)
		candles[i] = bar(i, close, close+2, close-2, 1000)
	}

	candidate := d.Screen("DOGE/USD", candles)
	if candidate == nil {
		t.Fatal("Expected a candidate")
	}
	if candidate.Grade != "D" {
		t.Errorf("Expected grade D for a downtrend, got %s (score %d)", candidate.Grade, candidate.Score)
	}
	if candidate.Score < 10 || candidate.Score > 99 {
		t.Errorf("Expected score clamped to [10,99], got %d", candidate.Score)
	}
	if candidate.PivotImminent {
		t.Error("Expected no imminent pivot in a wide falling base")
	}
}

func TestScreen_CloseAbovePriorHighsIsBreakout(t *testing.T) {
	d := newTestDetector()
	candles := make([]types.Candle, 0, 200)
	for i := 0; i < 199; i++ {
		close := 100 + 0.5*float64(i)
		candles = append(candles, bar(i, close, close+2, close-2, 1000))
	}
	candles = append(candles, bar(199, 215, 216, 210, 1000))

	candidate := d.Screen("ETH/USD", candles)
	if candidate == nil {
		t.Fatal("Expected a candidate")
	}
	if candidate.SignalType != SignalBreakout {
		t.Errorf("Expected %s, got %s (breakout %.2f%%)",
			SignalBreakout, candidate.SignalType, candidate.BreakoutPct)
	}
	if candidate.BreakoutPct <= 0 {
		t.Errorf("Expected positive breakout distance, got %.2f%%", candidate.BreakoutPct)
	}
}

func TestGradeFor_Boundaries(t *testing.T) {
	d := newTestDetector()
	cases := []struct {
		score int
		want  string
	}{
		{99, "A"},
		{80, "A"},
		{79, "B"},
		{65, "B"},
		{64, "C"},
		{50, "C"},
		{49, "D"},
		{10, "D"},
	}
	for _, tc := range cases {
		if got := d.gradeFor(tc.score); got != tc.want {
			t.Errorf("gradeFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
