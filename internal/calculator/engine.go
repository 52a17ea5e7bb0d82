package calculator

import (
	"fmt"
	"math"

	"MomentumScout/internal/model"
)

// Standard indicator windows.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerDev     = 2.0
	StochasticK      = 14
	StochasticD      = 3
	TrendFastPeriod  = 50
	TrendSlowPeriod  = 200
)

// Derive computes the indicator values at the last bar of a normalized series.
// Any required indicator still in its warm-up window at the last bar makes the
// whole derivation fail with model.ErrInsufficientHistory. The trend moving
// averages are optional and left nil when the series is too short.
func Derive(s *model.Series) (model.IndicatorValues, error) {
	if s == nil || s.Len() < 2 {
		return model.IndicatorValues{}, fmt.Errorf("%w: series has fewer than 2 bars", model.ErrUnavailable)
	}
	closes := s.Close

	macd, signal := MACDSeries(closes, MACDFast, MACDSlow, MACDSignalPeriod)
	bb := BollingerSeries(closes, BollingerPeriod, BollingerDev)
	k, d := StochasticSeries(s.High, s.Low, closes, StochasticK, StochasticD)

	v := model.IndicatorValues{
		RSI:                last(RSISeries(closes, RSIPeriod)),
		MACD:               last(macd),
		MACDSignal:         last(signal),
		BollingerLBand:     last(bb.Lower),
		BollingerHBand:     last(bb.Upper),
		BollingerBandwidth: last(bb.Bandwidth),
		StochasticK:        last(k),
		StochasticD:        last(d),
		SMA50:              optionalSMA(closes, TrendFastPeriod),
		SMA200:             optionalSMA(closes, TrendSlowPeriod),
	}

	required := []struct {
		name  string
		value float64
	}{
		{"rsi", v.RSI},
		{"macd", v.MACD},
		{"macd_signal", v.MACDSignal},
		{"bollinger_lband", v.BollingerLBand},
		{"bollinger_hband", v.BollingerHBand},
		{"bollinger_bandwidth", v.BollingerBandwidth},
		{"stochastic_k", v.StochasticK},
		{"stochastic_d", v.StochasticD},
	}
	for _, r := range required {
		if math.IsNaN(r.value) {
			return model.IndicatorValues{}, fmt.Errorf("%w: %s undefined at last bar (%d bars)",
				model.ErrInsufficientHistory, r.name, s.Len())
		}
	}
	return v, nil
}

func optionalSMA(closes []float64, period int) *float64 {
	v, err := CalculateSMA(closes, period)
	if err != nil {
		return nil
	}
	return &v
}
