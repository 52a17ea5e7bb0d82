package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMASeries returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first defined value. Values are NaN until span observations
// have been seen.
func EMASeries(values []float64, span int) []float64 {
	if span <= 0 {
		return nanSlice(len(values))
	}
	return ewm(values, 2.0/float64(span+1), span)
}

// ewm is a recursive exponentially weighted mean: y0 = x0, yt = (1-alpha)*y(t-1) + alpha*xt.
// Leading NaN inputs are skipped; output stays NaN until minPeriods observations.
func ewm(values []float64, alpha float64, minPeriods int) []float64 {
	out := nanSlice(len(values))
	var (
		mean    float64
		seen    int
		started bool
	)
	for i, v := range values {
		if math.IsNaN(v) {
			if started && seen >= minPeriods {
				out[i] = mean
			}
			continue
		}
		if !started {
			mean = v
			started = true
		} else {
			mean = (1-alpha)*mean + alpha*v
		}
		seen++
		if seen >= minPeriods {
			out[i] = mean
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// last returns the final element, or NaN for an empty slice.
func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}
