package calculator

import talib "github.com/markcheno/go-talib"

// BollingerBands holds the per-bar band values.
type BollingerBands struct {
	Middle    []float64
	Upper     []float64
	Lower     []float64
	Bandwidth []float64 // (Upper-Lower)/Middle
}

// BollingerSeries computes bands of width k population standard deviations
// around the rolling mean. Positions before the window fills are NaN.
func BollingerSeries(closes []float64, period int, k float64) BollingerBands {
	n := len(closes)
	bb := BollingerBands{
		Middle:    nanSlice(n),
		Upper:     nanSlice(n),
		Lower:     nanSlice(n),
		Bandwidth: nanSlice(n),
	}
	if period < 2 || n < period {
		return bb
	}

	upper, middle, lower := talib.BBands(closes, period, k, k, talib.SMA)
	for i := period - 1; i < n; i++ {
		bb.Middle[i] = middle[i]
		bb.Upper[i] = upper[i]
		bb.Lower[i] = lower[i]
		if middle[i] != 0 {
			bb.Bandwidth[i] = (upper[i] - lower[i]) / middle[i]
		}
	}
	return bb
}
