package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MomentumScout/internal/calculator"
	"MomentumScout/internal/metrics"
	"MomentumScout/internal/model"
)

// Default collection settings.
const (
	DefaultLookbackDays = 180
	DefaultFetchTimeout = 30 * time.Second
)

// Collector fetches one asset's history and normalizes it.
type Collector struct {
	Provider     HistoryProvider
	LookbackDays int
	Timeout      time.Duration
	Metrics      *metrics.Registry
}

// NewCollector creates a new Collector with default lookback and timeout.
func NewCollector(provider HistoryProvider, m *metrics.Registry) *Collector {
	return &Collector{
		Provider:     provider,
		LookbackDays: DefaultLookbackDays,
		Timeout:      DefaultFetchTimeout,
		Metrics:      m,
	}
}

// Collect issues exactly one history fetch for the asset and returns the
// normalized series. A failed or timed-out fetch is reported as
// model.ErrUnavailable.
func (c *Collector) Collect(ctx context.Context, assetID string) (*model.Series, error) {
	fetchCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.Provider.FetchHistory(fetchCtx, assetID, c.LookbackDays)
	c.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch %s: %w", model.ErrUnavailable, assetID, err)
	}

	series, err := calculator.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", assetID, err)
	}
	return series, nil
}
