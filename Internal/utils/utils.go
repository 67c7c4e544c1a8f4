package utils

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Max returns the largest of the given values.
func Max(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Min returns the smallest of the given values.
func Min(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Average returns the arithmetic mean, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Clamp limits x to the [lo, hi] range.
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// CalculateAvgVolume averages the last period entries of a volume series.
// Returns 0 when the series is empty.
func CalculateAvgVolume(volumes []float64, period int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	if period > len(volumes) {
		period = len(volumes)
	}
	return Average(volumes[len(volumes)-period:])
}
