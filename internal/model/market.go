package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPoint is a single (timestamp, price) row as returned by a history provider.
// A zero Time or an invalid Price marks the row as missing.
type RawPoint struct {
	Time  time.Time
	Price decimal.NullDecimal
}

// PricePoint is a cleaned observation. Price is always > 0.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// Series is a normalized price series shaped like OHLCV bars.
// The feed carries a single price per timestamp, so High, Low and Close all
// equal the price and Volume is always zero.
type Series struct {
	Points []PricePoint
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Points) }

// Last returns the most recent point.
func (s *Series) Last() PricePoint { return s.Points[len(s.Points)-1] }

// LastClose returns the most recent close as float64.
func (s *Series) LastClose() float64 { return s.Close[len(s.Close)-1] }
