package indicators

import "testing"

func TestDetectRSIDivergence_Bullish(t *testing.T) {
	closes := []float64{10, 9, 5, 9, 10, 9, 4, 9, 10}
	rsi := []float64{50, 45, 30, 45, 50, 45, 35, 45, 50}

	got := DetectRSIDivergence(closes, rsi, 20)
	if got != DivergenceBullish {
		t.Errorf("Expected %s, got %s", DivergenceBullish, got)
	}
}

func TestDetectRSIDivergence_Bearish(t *testing.T) {
	closes := []float64{10, 11, 15, 11, 10, 11, 16, 11, 10}
	rsi := []float64{50, 55, 70, 55, 50, 55, 65, 55, 50}

	got := DetectRSIDivergence(closes, rsi, 20)
	if got != DivergenceBearish {
		t.Errorf("Expected %s, got %s", DivergenceBearish, got)
	}
}

func TestDetectRSIDivergence_ConfirmingLowsNoSignal(t *testing.T) {
	// Price and RSI both print lower lows: momentum confirms, no divergence.
	closes := []float64{10, 9, 5, 9, 10, 9, 4, 9, 10}
	rsi := []float64{50, 45, 30, 45, 50, 45, 25, 45, 50}

	got := DetectRSIDivergence(closes, rsi, 20)
	if got != DivergenceNone {
		t.Errorf("Expected %s, got %s", DivergenceNone, got)
	}
}

func TestDetectRSIDivergence_MonotonicSeriesHasNoPivots(t *testing.T) {
	closes := risingSeries(100, 1, 30)
	rsi := constantSeries(60, 30)

	got := DetectRSIDivergence(closes, rsi, 20)
	if got != DivergenceNone {
		t.Errorf("Expected %s, got %s", DivergenceNone, got)
	}
}

func TestDetectRSIDivergence_LengthMismatch(t *testing.T) {
	got := DetectRSIDivergence(constantSeries(100, 10), constantSeries(50, 9), 20)
	if got != DivergenceNone {
		t.Errorf("Expected %s for mismatched inputs, got %s", DivergenceNone, got)
	}
}
