package calculator

import "math"

// MACDSeries returns the MACD line (fast EMA minus slow EMA) and its signal line.
// The signal EMA starts at the first defined MACD value.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig []float64) {
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)
	macd = nanSlice(len(closes))
	for i := range closes {
		if math.IsNaN(fastEMA[i]) || math.IsNaN(slowEMA[i]) {
			continue
		}
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	return macd, EMASeries(macd, signal)
}
