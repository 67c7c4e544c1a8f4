package utils

import "testing"

func TestMax_Variadic(t *testing.T) {
	if got := Max(1, 5, 3); got != 5 {
		t.Errorf("Expected 5, got %f", got)
	}
	if got := Max(); got != 0 {
		t.Errorf("Expected 0 for no arguments, got %f", got)
	}
}

func TestMin_Variadic(t *testing.T) {
	if got := Min(4, 2, 9); got != 2 {
		t.Errorf("Expected 2, got %f", got)
	}
}

func TestAverage_EmptySlice(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Errorf("Expected 0 for empty slice, got %f", got)
	}
}

func TestClamp_Bounds(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Expected 100, got %f", got)
	}
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Expected 42, got %f", got)
	}
}

func TestCalculateAvgVolume_ShortSeries(t *testing.T) {
	if got := CalculateAvgVolume([]float64{100, 200}, 20); got != 150 {
		t.Errorf("Expected 150, got %f", got)
	}
}
