package strategy

import (
	"math"

	"MomentumScout/internal/model"
)

// Score reduces an indicator snapshot to its four floor-clamped sub-scores.
func Score(snap model.IndicatorSnapshot) model.SubScores {
	return model.SubScores{
		RSI:        scoreRSI(&snap),
		MACD:       scoreMACD(&snap),
		Stochastic: scoreStochastic(&snap),
		Bollinger:  scoreBollinger(&snap),
	}
}

// Evaluate returns the sub-scores and the total strength score, which is their
// unweighted sum. The total is only meaningful relative to other assets.
func Evaluate(snap model.IndicatorSnapshot) (model.SubScores, float64) {
	scores := Score(snap)
	return scores, scores.Sum()
}

// ClassifyTrend compares the 50 and 200 bar simple moving averages.
// Either average missing gives TrendUnknown.
func ClassifyTrend(sma50, sma200 *float64) model.Trend {
	if sma50 == nil || sma200 == nil || math.IsNaN(*sma50) || math.IsNaN(*sma200) {
		return model.TrendUnknown
	}
	if *sma50 > *sma200 {
		return model.TrendPositive
	}
	return model.TrendNegative
}
