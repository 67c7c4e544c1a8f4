package types

import "testing"

func TestSortCandles_OrdersAndDedups(t *testing.T) {
	candles := []Candle{
		{Timestamp: 3000, Close: 103},
		{Timestamp: 1000, Close: 101},
		{Timestamp: 2000, Close: 102},
		{Timestamp: 2000, Close: 102.5}, // duplicate timestamp, last wins
	}

	sorted := SortCandles(candles)

	if len(sorted) != 3 {
		t.Fatalf("Expected 3 candles after dedup, got %d", len(sorted))
	}
	if sorted[0].Timestamp != 1000 || sorted[1].Timestamp != 2000 || sorted[2].Timestamp != 3000 {
		t.Errorf("Candles not sorted by timestamp: %+v", sorted)
	}
	if sorted[1].Close != 102.5 {
		t.Errorf("Expected last-write-wins on duplicate timestamp, got %f", sorted[1].Close)
	}
}

func TestSortCandles_DoesNotMutateInput(t *testing.T) {
	candles := []Candle{
		{Timestamp: 2000, Close: 102},
		{Timestamp: 1000, Close: 101},
	}

	SortCandles(candles)

	if candles[0].Timestamp != 2000 {
		t.Error("Expected the input slice to be left untouched")
	}
}

func TestClosesAndVolumes_ExtractSeries(t *testing.T) {
	candles := []Candle{
		{Close: 100, Volume: 10},
		{Close: 101, Volume: 20},
	}

	closes := Closes(candles)
	volumes := Volumes(candles)

	if len(closes) != 2 || closes[1] != 101 {
		t.Errorf("Unexpected closes: %v", closes)
	}
	if len(volumes) != 2 || volumes[0] != 10 {
		t.Errorf("Unexpected volumes: %v", volumes)
	}
}

func TestLastClose_EmptySeries(t *testing.T) {
	if got := LastClose(nil); got != 0 {
		t.Errorf("Expected 0 for empty series, got %f", got)
	}
}
