package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"MomentumScout/internal/model"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient implements CatalogProvider and HistoryProvider against the
// CoinGecko REST API. Calls are rate limited and guarded by a circuit breaker.
type CoinGeckoClient struct {
	BaseURL    string
	APIKey     string
	VsCurrency string
	Client     *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewCoinGeckoClient creates a client with optional proxy support.
// ratePerMinute <= 0 disables rate limiting.
func NewCoinGeckoClient(baseURL, apiKey, proxyURL string, ratePerMinute float64) *CoinGeckoClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	limit := rate.Inf
	if ratePerMinute > 0 {
		limit = rate.Limit(ratePerMinute / 60)
	}
	return &CoinGeckoClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		VsCurrency: "usd",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "coingecko",
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *CoinGeckoClient) Name() string { return "coingecko" }

// ListAssets returns every listed coin. Entries missing an id, symbol or name are skipped.
func (c *CoinGeckoClient) ListAssets(ctx context.Context) ([]model.Asset, error) {
	body, status, err := c.get(ctx, "/coins/list", nil)
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list coins: status %d, body: %s", status, truncate(body))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode coin list: %w", err)
	}
	assets := make([]model.Asset, 0, len(items))
	for _, raw := range items {
		var item struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.ID == "" || item.Symbol == "" || item.Name == "" {
			continue
		}
		assets = append(assets, model.Asset{ID: item.ID, Symbol: item.Symbol, Name: item.Name})
	}
	return assets, nil
}

// marketChart is the relevant part of the /coins/{id}/market_chart response.
type marketChart struct {
	Prices [][]json.Number `json:"prices"`
}

// FetchHistory returns daily (timestamp, price) rows for the last lookbackDays days.
func (c *CoinGeckoClient) FetchHistory(ctx context.Context, assetID string, lookbackDays int) ([]model.RawPoint, error) {
	q := url.Values{}
	q.Set("vs_currency", c.VsCurrency)
	q.Set("days", strconv.Itoa(lookbackDays))
	q.Set("interval", "daily")

	body, status, err := c.get(ctx, "/coins/"+url.PathEscape(assetID)+"/market_chart", q)
	if err != nil {
		return nil, fmt.Errorf("market chart %s: %w", assetID, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: market chart %s: status %d", model.ErrUnavailable, assetID, status)
	}

	var chart marketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: decode market chart %s: %v", model.ErrUnavailable, assetID, err)
	}
	if chart.Prices == nil {
		return nil, fmt.Errorf("%w: market chart %s has no prices", model.ErrUnavailable, assetID)
	}
	return parsePriceRows(chart.Prices), nil
}

// parsePriceRows converts [[ms, price], ...] rows. Unparseable cells leave the
// row's time or price unset so the normalizer drops it.
func parsePriceRows(rows [][]json.Number) []model.RawPoint {
	points := make([]model.RawPoint, 0, len(rows))
	for _, row := range rows {
		var p model.RawPoint
		if len(row) >= 2 {
			if ms, err := row[0].Float64(); err == nil && ms > 0 {
				p.Time = time.UnixMilli(int64(ms)).UTC()
			}
			if d, err := decimal.NewFromString(row[1].String()); err == nil {
				p.Price = decimal.NewNullDecimal(d)
			}
		}
		points = append(points, p)
	}
	return points
}

// errServer marks a response that should count against the circuit breaker.
var errServer = errors.New("server error")

func (c *CoinGeckoClient) get(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	type response struct {
		body   []byte
		status int
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.APIKey != "" {
			req.Header.Set("x-cg-demo-api-key", c.APIKey)
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d, body: %s", errServer, resp.StatusCode, truncate(body))
		}
		return response{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	r := out.(response)
	return r.body, r.status, nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
