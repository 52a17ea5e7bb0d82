package calculator

import "math"

// RollingMax returns the highest value of each trailing window of the given size.
// Positions before the window fills are NaN.
func RollingMax(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a > b }, math.Inf(-1))
}

// RollingMin returns the lowest value of each trailing window of the given size.
func RollingMin(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a < b }, math.Inf(1))
}

func rollingExtreme(values []float64, window int, better func(a, b float64) bool, init float64) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		best := init
		for j := i - window + 1; j <= i; j++ {
			if better(values[j], best) {
				best = values[j]
			}
		}
		out[i] = best
	}
	return out
}
