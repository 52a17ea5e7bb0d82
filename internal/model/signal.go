package model

// Trend is the longer-term direction derived from the 50/200 moving averages.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendPositive
	TrendNegative
)

func (t Trend) String() string {
	switch t {
	case TrendPositive:
		return "Positive"
	case TrendNegative:
		return "Negative"
	default:
		return "Unknown"
	}
}

// Asset identifies one member of the ranking universe.
type Asset struct {
	ID     string
	Symbol string
	Name   string
}

// SubScores holds the four floor-clamped components of the strength score.
type SubScores struct {
	RSI        float64
	MACD       float64
	Stochastic float64
	Bollinger  float64
}

// Sum returns the unweighted total of the sub-scores.
func (s SubScores) Sum() float64 {
	return s.RSI + s.MACD + s.Stochastic + s.Bollinger
}

// AssetResult is the scored outcome for one asset in a ranking run.
type AssetResult struct {
	Asset
	Indicators IndicatorSnapshot
	Scores     SubScores
	TotalScore float64
	Trend      Trend
}

// RankedList is ordered by TotalScore descending, ties in encounter order.
type RankedList []AssetResult

// Top returns the first n entries (all of them when n exceeds the length).
func (l RankedList) Top(n int) RankedList {
	if n < 0 {
		n = 0
	}
	if n > len(l) {
		n = len(l)
	}
	return l[:n]
}
