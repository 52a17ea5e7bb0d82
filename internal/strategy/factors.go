package strategy

import "MomentumScout/internal/model"

// scoreRSI rewards low RSI (oversold, potential upside): max(0, 100-rsi)/100.
func scoreRSI(snap *model.IndicatorSnapshot) float64 {
	return floor0(100-snap.RSI) / 100
}

// scoreMACD is the relative magnitude of a bullish MACD crossover.
func scoreMACD(snap *model.IndicatorSnapshot) float64 {
	return floor0(ratio(snap.MACD-snap.MACDSignal, snap.MACDSignal))
}

// scoreStochastic is the relative lead of %K over %D.
func scoreStochastic(snap *model.IndicatorSnapshot) float64 {
	return floor0(ratio(snap.StochasticK-snap.StochasticD, snap.StochasticD))
}

// scoreBollinger measures how close price sits to the lower band, relative to band width.
func scoreBollinger(snap *model.IndicatorSnapshot) float64 {
	return floor0(ratio(snap.BollingerHBand-snap.Price, snap.BollingerHBand-snap.BollingerLBand))
}

// ratio returns num/den, or 0 when the denominator is exactly zero.
// A degenerate denominator is never an error; it contributes nothing.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// floor0 clamps negatives and NaN to 0.
func floor0(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
