package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Skip reasons used as the `reason` label.
const (
	ReasonUnavailable  = "unavailable"
	ReasonInsufficient = "insufficient_history"
	ReasonOther        = "other"
)

// Registry holds the ranking pipeline metrics. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg *prometheus.Registry

	AssetsScored  prometheus.Counter
	AssetsSkipped *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	RunDuration   prometheus.Histogram
	LastRunScored prometheus.Gauge
}

// New creates a registry with all scout metrics registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		AssetsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_assets_scored_total",
			Help: "Assets that produced a strength score",
		}),
		AssetsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_assets_skipped_total",
			Help: "Assets skipped during a ranking run, by reason",
		}, []string{"reason"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_history_fetch_seconds",
			Help:    "Latency of a single price history fetch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_ranking_run_seconds",
			Help:    "Duration of a full ranking run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		LastRunScored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scout_last_run_scored_assets",
			Help: "Number of assets in the most recent ranked list",
		}),
	}
	r.reg.MustRegister(r.AssetsScored, r.AssetsSkipped, r.FetchDuration, r.RunDuration, r.LastRunScored)
	return r
}

// Scored counts one successfully scored asset.
func (r *Registry) Scored() {
	if r == nil {
		return
	}
	r.AssetsScored.Inc()
}

// Skipped counts one skipped asset.
func (r *Registry) Skipped(reason string) {
	if r == nil {
		return
	}
	r.AssetsSkipped.WithLabelValues(reason).Inc()
}

// ObserveFetch records a history fetch latency.
func (r *Registry) ObserveFetch(d time.Duration) {
	if r == nil {
		return
	}
	r.FetchDuration.Observe(d.Seconds())
}

// ObserveRun records a completed ranking run.
func (r *Registry) ObserveRun(d time.Duration, scored int) {
	if r == nil {
		return
	}
	r.RunDuration.Observe(d.Seconds())
	r.LastRunScored.Set(float64(scored))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve runs the /metrics endpoint until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
