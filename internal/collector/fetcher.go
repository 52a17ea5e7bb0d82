package collector

import (
	"context"

	"MomentumScout/internal/model"
)

// CatalogProvider lists the asset universe.
type CatalogProvider interface {
	ListAssets(ctx context.Context) ([]model.Asset, error)
}

// HistoryProvider fetches a raw daily price series for one asset.
// Missing or malformed history is reported as model.ErrUnavailable.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, assetID string, lookbackDays int) ([]model.RawPoint, error)
	Name() string
}
