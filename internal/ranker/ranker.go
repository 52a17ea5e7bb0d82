package ranker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MomentumScout/internal/calculator"
	"MomentumScout/internal/collector"
	"MomentumScout/internal/metrics"
	"MomentumScout/internal/model"
	"MomentumScout/internal/strategy"
)

// DefaultTopN is the number of candidates surfaced for review.
const DefaultTopN = 5

// Ranker runs the scoring pipeline across an asset universe.
type Ranker struct {
	Collector *collector.Collector
	Workers   int // 1 processes assets strictly sequentially
	Metrics   *metrics.Registry
}

// New creates a Ranker.
func New(c *collector.Collector, workers int, m *metrics.Registry) *Ranker {
	return &Ranker{Collector: c, Workers: workers, Metrics: m}
}

// Run lists the universe from the catalog and ranks it. A catalog failure is
// fatal for the run and is reported as model.ErrProviderFailure.
func (r *Ranker) Run(ctx context.Context, catalog collector.CatalogProvider, results *Results) (model.RankedList, error) {
	universe, err := catalog.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list assets: %w", model.ErrProviderFailure, err)
	}
	log.Info().Int("assets", len(universe)).Msg("universe loaded")
	return r.Rank(ctx, universe, results)
}

// Rank evaluates every asset into results and returns the full ranked list.
// Assets that fail at any step are skipped; only cancellation of ctx aborts the run.
func (r *Ranker) Rank(ctx context.Context, universe []model.Asset, results *Results) (model.RankedList, error) {
	start := time.Now()
	total := len(universe)

	if r.Workers <= 1 {
		for i, asset := range universe {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.evaluateInto(ctx, i, total, asset, results)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.Workers)
		for i, asset := range universe {
			if ctx.Err() != nil {
				break
			}
			i, asset := i, asset
			g.Go(func() error {
				r.evaluateInto(ctx, i, total, asset, results)
				return nil
			})
		}
		g.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := results.Ranked()
	r.Metrics.ObserveRun(time.Since(start), len(ranked))
	log.Info().
		Int("universe", total).
		Int("scored", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("ranking complete")
	return ranked, nil
}

func (r *Ranker) evaluateInto(ctx context.Context, seq, total int, asset model.Asset, results *Results) {
	log.Debug().Msgf("processing %d/%d: %s (%s)", seq+1, total, asset.Name, asset.Symbol)
	res, err := r.Evaluate(ctx, asset)
	if err != nil {
		r.Metrics.Skipped(skipReason(err))
		log.Debug().Err(err).Str("asset", asset.ID).Msg("asset skipped")
		return
	}
	r.Metrics.Scored()
	results.Add(seq, res)
}

// Evaluate runs normalize, derive, score and trend classification for one
// asset from a single history fetch. The current price is the last bar of
// that same series.
func (r *Ranker) Evaluate(ctx context.Context, asset model.Asset) (model.AssetResult, error) {
	series, err := r.Collector.Collect(ctx, asset.ID)
	if err != nil {
		return model.AssetResult{}, err
	}
	values, err := calculator.Derive(series)
	if err != nil {
		return model.AssetResult{}, fmt.Errorf("derive %s: %w", asset.ID, err)
	}
	snap, err := model.NewIndicatorSnapshot(values, series.LastClose())
	if err != nil {
		return model.AssetResult{}, fmt.Errorf("snapshot %s: %w", asset.ID, err)
	}
	scores, totalScore := strategy.Evaluate(snap)
	return model.AssetResult{
		Asset:      asset,
		Indicators: snap,
		Scores:     scores,
		TotalScore: totalScore,
		Trend:      strategy.ClassifyTrend(snap.SMA50, snap.SMA200),
	}, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientHistory):
		return metrics.ReasonInsufficient
	case errors.Is(err, model.ErrUnavailable):
		return metrics.ReasonUnavailable
	default:
		return metrics.ReasonOther
	}
}
