package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"MomentumScout/internal/model"
)

// MockProvider returns controllable fixed data for development, offline runs and testing.
type MockProvider struct {
	Assets  []model.Asset
	History map[string][]model.RawPoint
	Fail    map[string]error // per-asset fetch failures
	ListErr error

	mu    sync.Mutex
	calls map[string]int
}

// NewOfflineProvider builds a provider with n synthetic assets, each with a
// deterministic random-walk history of the given length.
func NewOfflineProvider(n, days int) *MockProvider {
	m := &MockProvider{History: make(map[string][]model.RawPoint, n)}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("mock-%d", i)
		m.Assets = append(m.Assets, model.Asset{
			ID:     id,
			Symbol: fmt.Sprintf("MCK%d", i),
			Name:   fmt.Sprintf("Mock Coin %d", i),
		})
		m.History[id] = GenerateMockHistory(int64(i), 10*float64(i), days, end)
	}
	return m
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) ListAssets(_ context.Context) ([]model.Asset, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Asset, len(m.Assets))
	copy(out, m.Assets)
	return out, nil
}

func (m *MockProvider) FetchHistory(ctx context.Context, assetID string, lookbackDays int) ([]model.RawPoint, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[assetID]++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Fail[assetID]; ok {
		return nil, err
	}
	history, ok := m.History[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: no mock history for %s", model.ErrUnavailable, assetID)
	}
	if len(history) > lookbackDays && lookbackDays > 0 {
		history = history[len(history)-lookbackDays:]
	}
	out := make([]model.RawPoint, len(history))
	copy(out, history)
	return out, nil
}

// Calls reports how many history fetches were issued for an asset.
func (m *MockProvider) Calls(assetID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[assetID]
}

// GenerateMockHistory produces a deterministic daily random walk ending at end.
func GenerateMockHistory(seed int64, basePrice float64, days int, end time.Time) []model.RawPoint {
	rng := rand.New(rand.NewSource(seed))
	points := make([]model.RawPoint, days)
	p := basePrice
	for i := 0; i < days; i++ {
		p *= 1 + 0.03*math.Sin(float64(i)/7+float64(seed)) + (rng.Float64()-0.5)*0.04
		if p <= 0.01 {
			p = 0.01
		}
		points[i] = model.RawPoint{
			Time:  end.AddDate(0, 0, -(days - 1 - i)),
			Price: decimal.NewNullDecimal(decimal.NewFromFloat(p).Round(6)),
		}
	}
	return points
}
