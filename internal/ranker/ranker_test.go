package ranker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumScout/internal/collector"
	"MomentumScout/internal/metrics"
	"MomentumScout/internal/model"
)

var end = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newMock(ids ...string) *collector.MockProvider {
	m := &collector.MockProvider{History: make(map[string][]model.RawPoint)}
	for i, id := range ids {
		m.Assets = append(m.Assets, model.Asset{ID: id, Symbol: id, Name: "Coin " + id})
		m.History[id] = collector.GenerateMockHistory(int64(i+1), 100, 250, end)
	}
	return m
}

func newRanker(p collector.HistoryProvider, workers int) *Ranker {
	return New(collector.NewCollector(p, nil), workers, nil)
}

func result(id string, score float64) model.AssetResult {
	return model.AssetResult{Asset: model.Asset{ID: id}, TotalScore: score}
}

func ids(list model.RankedList) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestResults_TiesKeepUniverseOrder(t *testing.T) {
	res := NewResults()
	// Y completes before X but X comes first in the universe.
	res.Add(1, result("Y", 1.0))
	res.Add(2, result("Z", 2.5))
	res.Add(0, result("X", 1.0))

	require.Equal(t, 3, res.Len())
	assert.Equal(t, []string{"Z", "X", "Y"}, ids(res.Ranked()))
}

func TestSort_IsIdempotent(t *testing.T) {
	in := []model.AssetResult{
		result("a", 0), result("b", 3), result("c", 0), result("d", 1.5), result("e", 3),
	}
	once := Sort(in)
	twice := Sort(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"b", "e", "d", "a", "c"}, ids(once))
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")
}

func TestEvaluate_UsesSingleFetchAndLastPrice(t *testing.T) {
	m := newMock("btc")
	r := newRanker(m, 1)

	res, err := r.Evaluate(context.Background(), m.Assets[0])
	require.NoError(t, err)

	assert.Equal(t, 1, m.Calls("btc"))
	history := m.History["btc"]
	want := history[len(history)-1].Price.Decimal.InexactFloat64()
	assert.Equal(t, want, res.Indicators.Price)
	assert.Equal(t, res.Scores.Sum(), res.TotalScore)
	assert.Equal(t, "btc", res.ID)

	// 180 daily bars cannot define SMA200.
	assert.Nil(t, res.Indicators.SMA200)
	assert.Equal(t, model.TrendUnknown, res.Trend)
}

func TestRun_SkipsFailedAssets(t *testing.T) {
	m := newMock("one", "two", "three")
	m.Fail = map[string]error{"two": errors.New("connection reset")}
	r := newRanker(m, 1)

	results := NewResults()
	ranked, err := r.Run(context.Background(), m, results)
	require.NoError(t, err)

	assert.Len(t, ranked, 2)
	assert.ElementsMatch(t, []string{"one", "three"}, ids(ranked))
	for _, id := range []string{"one", "two", "three"} {
		assert.Equal(t, 1, m.Calls(id), id)
	}
}

func TestRun_SkipsShortHistory(t *testing.T) {
	m := newMock("long", "short")
	m.History["short"] = collector.GenerateMockHistory(9, 5, 20, end)
	reg := metrics.New()
	r := New(collector.NewCollector(m, reg), 1, reg)

	ranked, err := r.Run(context.Background(), m, NewResults())
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, ids(ranked))
}

func TestRun_CatalogFailureIsFatal(t *testing.T) {
	m := newMock("one")
	m.ListErr = errors.New("503 from catalog")
	r := newRanker(m, 1)

	ranked, err := r.Run(context.Background(), m, NewResults())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProviderFailure)
	assert.Nil(t, ranked)
	assert.Zero(t, m.Calls("one"))
}

func TestRank_EmptyUniverse(t *testing.T) {
	r := newRanker(newMock(), 1)
	ranked, err := r.Rank(context.Background(), nil, NewResults())
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_ParallelMatchesSequential(t *testing.T) {
	var names []string
	for _, c := range "abcdefghijklmnopqrst" {
		names = append(names, string(c))
	}

	seq, err := newRanker(newMock(names...), 1).Rank(context.Background(), newMock(names...).Assets, NewResults())
	require.NoError(t, err)

	pm := newMock(names...)
	par, err := newRanker(pm, 4).Rank(context.Background(), pm.Assets, NewResults())
	require.NoError(t, err)

	assert.Len(t, par, len(names))
	assert.Equal(t, ids(seq), ids(par))
	for i := range seq {
		assert.Equal(t, seq[i].TotalScore, par[i].TotalScore)
	}
	for _, id := range names {
		assert.Equal(t, 1, pm.Calls(id), id)
	}
}

func TestRank_CancelledContext(t *testing.T) {
	m := newMock("one", "two")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		ranked, err := newRanker(m, workers).Rank(ctx, m.Assets, NewResults())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, ranked)
	}
}

func TestSkipReason(t *testing.T) {
	assert.Equal(t, metrics.ReasonInsufficient, skipReason(model.ErrInsufficientHistory))
	assert.Equal(t, metrics.ReasonUnavailable, skipReason(model.ErrUnavailable))
	assert.Equal(t, metrics.ReasonOther, skipReason(errors.New("boom")))
}
