package indicators

import (
	"math"
	"testing"

	"github.com/fazecat/coinpulse/Internal/types"
)

func candlesFromCloses(closes []float64, spread float64) []types.Candle {
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			Timestamp: int64(i) * 86400000,
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func constantSeries(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func risingSeries(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestEMA_ConstantSeries(t *testing.T) {
	series := EMA(constantSeries(100, 50), 10)
	for i, v := range series {
		if v != 100 {
			t.Errorf("Expected EMA 100 at index %d, got %f", i, v)
		}
	}
}

func TestEMA_LagsRisingSeries(t *testing.T) {
	values := risingSeries(100, 1, 60)
	series := EMA(values, 20)
	last := series[len(series)-1]
	if last >= values[len(values)-1] {
		t.Errorf("Expected EMA below latest value %f, got %f", values[len(values)-1], last)
	}
	if last <= values[0] {
		t.Errorf("Expected EMA above first value %f, got %f", values[0], last)
	}
}

func TestSMA_PeriodLongerThanSeries(t *testing.T) {
	got := SMA([]float64{10, 20, 30}, 10)
	if got != 20 {
		t.Errorf("Expected SMA 20, got %f", got)
	}
}

func TestRSI_FlatSeriesReadsNeutral(t *testing.T) {
	got := LastRSI(constantSeries(100, 60), 14)
	if got != 50 {
		t.Errorf("Expected RSI 50 for flat series, got %f", got)
	}
}

func TestRSI_AllGainsReadsMax(t *testing.T) {
	got := LastRSI(risingSeries(100, 1, 60), 14)
	if got != 100 {
		t.Errorf("Expected RSI 100 for loss-free series, got %f", got)
	}
}

func TestRSI_AllLossesReadsMin(t *testing.T) {
	got := LastRSI(risingSeries(200, -1, 60), 14)
	if got != 0 {
		t.Errorf("Expected RSI 0 for gain-free series, got %f", got)
	}
}

func TestRSI_AlternatingStaysInBand(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i%2)
	}
	got := LastRSI(values, 14)
	if got < 30 || got > 70 {
		t.Errorf("Expected RSI near neutral for alternating series, got %f", got)
	}
}

func TestRSI_FirstValueIsNaN(t *testing.T) {
	series := RSI(risingSeries(100, 1, 20), 14)
	if !math.IsNaN(series[0]) {
		t.Errorf("Expected NaN at index 0, got %f", series[0])
	}
}

func TestATR_InsufficientBars(t *testing.T) {
	candles := candlesFromCloses(constantSeries(100, 10), 1)
	if got := ATR(candles, 14); got != 0 {
		t.Errorf("Expected ATR 0 for short series, got %f", got)
	}
}

func TestATR_ConstantRange(t *testing.T) {
	candles := candlesFromCloses(constantSeries(100, 30), 1)
	got := ATR(candles, 14)
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Expected ATR 2.0 for constant 2-point range, got %f", got)
	}
}

func TestMACD_RisingSeriesPositiveLine(t *testing.T) {
	result := MACD(risingSeries(100, 1, 80), 12, 26, 9)
	if result.Line <= 0 {
		t.Errorf("Expected positive MACD line in an uptrend, got %f", result.Line)
	}
}

func TestMACD_FastLeadsSlowInUptrend(t *testing.T) {
	values := risingSeries(100, 1, 120)
	fast := EMA(values, 12)
	slow := EMA(values, 26)
	for i := 60; i < len(values); i++ {
		if fast[i] <= slow[i] {
			t.Fatalf("Expected fast EMA above slow EMA at bar %d, got %f <= %f", i, fast[i], slow[i])
		}
	}
}

func TestMACD_CrossoverAfterReversal(t *testing.T) {
	closes := risingSeries(200, -1, 60)
	found := false
	for i := 0; i < 60; i++ {
		closes = append(closes, closes[len(closes)-1]+3)
		if MACD(closes, 12, 26, 9).Crossover == CrossBullish {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a bullish crossover after the reversal")
	}
}

func TestMACD_TooShortIsNeutral(t *testing.T) {
	result := MACD([]float64{100}, 12, 26, 9)
	if result.Crossover != CrossNeutral {
		t.Errorf("Expected neutral crossover for 1 bar, got %s", result.Crossover)
	}
}

func TestBollinger_FlatSeriesCentered(t *testing.T) {
	bands := Bollinger(constantSeries(100, 30), 20, 2.0)
	if bands.Position != 0.5 {
		t.Errorf("Expected position 0.5 for flat series, got %f", bands.Position)
	}
	if bands.Upper != bands.Lower {
		t.Errorf("Expected zero-width band, got upper %f lower %f", bands.Upper, bands.Lower)
	}
}

func TestBollinger_SpikeClampsToUpperBand(t *testing.T) {
	closes := constantSeries(100, 19)
	closes = append(closes, 110)
	bands := Bollinger(closes, 20, 2.0)
	if bands.Position != 1.0 {
		t.Errorf("Expected position clamped to 1.0, got %f", bands.Position)
	}
}

func TestRelativeVolume_ShortSeriesFallsBack(t *testing.T) {
	if got := RelativeVolume([]float64{100, 100, 100}, 20); got != 1.0 {
		t.Errorf("Expected fallback 1.0, got %f", got)
	}
}

func TestRelativeVolume_SpikeDetected(t *testing.T) {
	volumes := constantSeries(100, 19)
	volumes = append(volumes, 300)
	got := RelativeVolume(volumes, 20)
	if got < 2.0 {
		t.Errorf("Expected relative volume above 2.0 for a spike, got %f", got)
	}
}

func TestFindSupportResistance_UsesFallbacks(t *testing.T) {
	candles := []types.Candle{{High: 100, Low: 100, Close: 100}}
	sr := FindSupportResistance(candles, 50)
	if sr.Support != 95 {
		t.Errorf("Expected fallback support 95, got %f", sr.Support)
	}
	if sr.Resistance != 105 {
		t.Errorf("Expected fallback resistance 105, got %f", sr.Resistance)
	}
}

func TestFindSupportResistance_PicksNearestLevels(t *testing.T) {
	candles := []types.Candle{
		{High: 120, Low: 80, Close: 100},
		{High: 110, Low: 90, Close: 100},
		{High: 100, Low: 100, Close: 100},
	}
	sr := FindSupportResistance(candles, 50)
	if sr.Resistance != 110 {
		t.Errorf("Expected nearest resistance 110, got %f", sr.Resistance)
	}
	if sr.Support != 90 {
		t.Errorf("Expected nearest support 90, got %f", sr.Support)
	}
	if math.Abs(sr.ResistanceDistPct-10) > 1e-9 || math.Abs(sr.SupportDistPct+10) > 1e-9 {
		t.Errorf("Unexpected distances: support %f, resistance %f", sr.SupportDistPct, sr.ResistanceDistPct)
	}
}

func TestRiskReward_Basic(t *testing.T) {
	got := RiskReward(100, 90, 130)
	if math.Abs(got-3.0) > 1e-9 {
		t.Errorf("Expected risk/reward 3.0, got %f", got)
	}
}

func TestRiskReward_DegenerateGeometry(t *testing.T) {
	if got := RiskReward(100, 110, 120); got != 0 {
		t.Errorf("Expected 0 when price is below support, got %f", got)
	}
	if got := RiskReward(100, 90, 95); got != 0 {
		t.Errorf("Expected 0 when resistance is below price, got %f", got)
	}
}

func TestZScoreLast_TooShort(t *testing.T) {
	if _, ok := ZScoreLast(constantSeries(100, 10), 50); ok {
		t.Error("Expected ok=false for a short series")
	}
}

func TestZScoreLast_ZeroVariance(t *testing.T) {
	z, ok := ZScoreLast(constantSeries(100, 60), 50)
	if !ok || z != 0 {
		t.Errorf("Expected (0, true) for zero-variance window, got (%f, %v)", z, ok)
	}
}

func TestZScoreLast_SpikePositive(t *testing.T) {
	values := constantSeries(100, 59)
	values = append(values, 200)
	z, ok := ZScoreLast(values, 50)
	if !ok || z < 3.0 {
		t.Errorf("Expected a large positive z-score, got (%f, %v)", z, ok)
	}
}

func TestSlopePct_RisingSeries(t *testing.T) {
	slope, ok := SlopePct(risingSeries(100, 1, 100), 20)
	if !ok || slope <= 0 {
		t.Errorf("Expected positive slope, got (%f, %v)", slope, ok)
	}
}

func TestSlopePct_TooShort(t *testing.T) {
	if _, ok := SlopePct(risingSeries(100, 1, 10), 20); ok {
		t.Error("Expected ok=false for a short series")
	}
}

func TestBuildSnapshot_PopulatesFields(t *testing.T) {
	candles := candlesFromCloses(risingSeries(100, 0.5, 80), 1)
	snap := BuildSnapshot(candles)
	if snap.Price != candles[len(candles)-1].Close {
		t.Errorf("Expected snapshot price %f, got %f", candles[len(candles)-1].Close, snap.Price)
	}
	if snap.RSI < 0 || snap.RSI > 100 {
		t.Errorf("Expected RSI in [0,100], got %f", snap.RSI)
	}
	if snap.RelVolume <= 0 {
		t.Errorf("Expected positive relative volume, got %f", snap.RelVolume)
	}
}
