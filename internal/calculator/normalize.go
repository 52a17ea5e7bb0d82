package calculator

import (
	"fmt"
	"sort"

	"MomentumScout/internal/model"
)

// Normalize cleans a raw provider series into a Series suitable for indicator math.
//
// Rows with a zero timestamp, a null price or a non-positive price are dropped.
// Points are ordered by time and duplicate timestamps keep the last occurrence.
// Fewer than two surviving rows yields model.ErrUnavailable.
func Normalize(raw []model.RawPoint) (*model.Series, error) {
	points := make([]model.PricePoint, 0, len(raw))
	for _, r := range raw {
		if r.Time.IsZero() || !r.Price.Valid || !r.Price.Decimal.IsPositive() {
			continue
		}
		points = append(points, model.PricePoint{Time: r.Time, Price: r.Price.Decimal})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	if len(deduped) < 2 {
		return nil, fmt.Errorf("%w: %d valid rows after cleaning", model.ErrUnavailable, len(deduped))
	}

	s := &model.Series{
		Points: deduped,
		High:   make([]float64, len(deduped)),
		Low:    make([]float64, len(deduped)),
		Close:  make([]float64, len(deduped)),
		Volume: make([]float64, len(deduped)),
	}
	for i, p := range deduped {
		price := p.Price.InexactFloat64()
		s.High[i] = price
		s.Low[i] = price
		s.Close[i] = price
	}
	return s, nil
}
