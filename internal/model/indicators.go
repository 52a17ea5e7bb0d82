package model

import (
	"fmt"
	"math"
)

// IndicatorValues holds the last-bar values produced by the indicator engine.
type IndicatorValues struct {
	RSI                float64
	MACD               float64
	MACDSignal         float64
	BollingerLBand     float64
	BollingerHBand     float64
	BollingerBandwidth float64
	StochasticK        float64
	StochasticD        float64
	SMA50              *float64 // nil when the series is shorter than 50 bars
	SMA200             *float64 // nil when the series is shorter than 200 bars
}

// IndicatorSnapshot is the immutable per-asset indicator record used for scoring.
type IndicatorSnapshot struct {
	RSI                float64
	MACD               float64
	MACDSignal         float64
	BollingerLBand     float64
	BollingerHBand     float64
	StochasticK        float64
	StochasticD        float64
	BollingerBandwidth float64
	Price              float64
	SMA50              *float64
	SMA200             *float64
}

// NewIndicatorSnapshot validates that every required field is a finite number
// and builds the snapshot. The moving averages are optional.
func NewIndicatorSnapshot(v IndicatorValues, price float64) (IndicatorSnapshot, error) {
	required := []struct {
		name  string
		value float64
	}{
		{"rsi", v.RSI},
		{"macd", v.MACD},
		{"macd_signal", v.MACDSignal},
		{"bollinger_lband", v.BollingerLBand},
		{"bollinger_hband", v.BollingerHBand},
		{"stochastic_k", v.StochasticK},
		{"stochastic_d", v.StochasticD},
		{"bollinger_bandwidth", v.BollingerBandwidth},
		{"price", price},
	}
	for _, f := range required {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return IndicatorSnapshot{}, fmt.Errorf("%w: %s is not a finite value", ErrInsufficientHistory, f.name)
		}
	}
	return IndicatorSnapshot{
		RSI:                v.RSI,
		MACD:               v.MACD,
		MACDSignal:         v.MACDSignal,
		BollingerLBand:     v.BollingerLBand,
		BollingerHBand:     v.BollingerHBand,
		StochasticK:        v.StochasticK,
		StochasticD:        v.StochasticD,
		BollingerBandwidth: v.BollingerBandwidth,
		Price:              price,
		SMA50:              copyOptional(v.SMA50),
		SMA200:             copyOptional(v.SMA200),
	}, nil
}

func copyOptional(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) {
		return nil
	}
	v := *p
	return &v
}
