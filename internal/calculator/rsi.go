package calculator

import (
	"errors"
	"math"
)

// RSISeries computes the Wilder-smoothed RSI over closes.
// The first change is taken as zero and smoothing is seeded at the first bar,
// so a value exists from bar `period` onwards. A zero average loss gives 100.
func RSISeries(closes []float64, period int) []float64 {
	n := len(closes)
	if period <= 0 {
		return nanSlice(n)
	}
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change // make positive
		}
	}

	alpha := 1.0 / float64(period)
	avgGain := ewm(gains, alpha, period)
	avgLoss := ewm(losses, alpha, period)

	out := nanSlice(n)
	for i := range out {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// CalculateRSI returns the RSI at the last bar.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	v := last(RSISeries(closes, period))
	if math.IsNaN(v) {
		return 0, errors.New("not enough data for RSI calculation")
	}
	return v, nil
}
