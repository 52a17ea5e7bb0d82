package calculator

import "math"

// StochasticSeries computes %K over kPeriod bars and %D as the mean of the
// last dPeriod %K values. A window whose high equals its low leaves %K
// undefined, and %D is undefined unless all dPeriod values are defined.
func StochasticSeries(high, low, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(closes)
	highest := RollingMax(high, kPeriod)
	lowest := RollingMin(low, kPeriod)

	k = nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(highest[i]) || math.IsNaN(lowest[i]) {
			continue
		}
		span := highest[i] - lowest[i]
		if span == 0 {
			continue
		}
		k[i] = 100 * (closes[i] - lowest[i]) / span
	}

	d = nanSlice(n)
	if dPeriod <= 0 {
		return k, d
	}
	for i := 0; i < n; i++ {
		sum, count := 0.0, 0
		for j := max(0, i-dPeriod+1); j <= i; j++ {
			if math.IsNaN(k[j]) {
				continue
			}
			sum += k[j]
			count++
		}
		if count == dPeriod {
			d[i] = sum / float64(count)
		}
	}
	return k, d
}
