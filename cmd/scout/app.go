package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"MomentumScout/internal/collector"
	"MomentumScout/internal/config"
	"MomentumScout/internal/metrics"
	"MomentumScout/internal/notifier"
	"MomentumScout/internal/ranker"
	"MomentumScout/internal/recorder"
	"MomentumScout/internal/scheduler"
	"MomentumScout/internal/watchlist"
)

// offlineUniverse is the number of synthetic assets served in offline mode.
const offlineUniverse = 25

type app struct {
	cfg       *config.Config
	metrics   *metrics.Registry
	notifier  *notifier.TelegramNotifier
	watchlist *watchlist.Store
	recorder  recorder.Recorder
	sched     *scheduler.Scheduler
}

// newApp wires providers, ranker, reporting and persistence from config.
func newApp(ctx context.Context, cfg *config.Config, offline bool) (*app, error) {
	if offline {
		cfg.Provider.Name = config.ProviderMock
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	wl, err := watchlist.Open(cfg.Watchlist.Path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}

	var (
		history collector.HistoryProvider
		catalog collector.CatalogProvider
	)
	switch cfg.Provider.Name {
	case config.ProviderMock:
		mock := collector.NewOfflineProvider(offlineUniverse, cfg.Provider.LookbackDays)
		history, catalog = mock, mock
	case config.ProviderYahoo:
		history = collector.NewYahooFetcher(cfg.Proxy)
	default:
		cg := collector.NewCoinGeckoClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy, cfg.Provider.RatePerMinute)
		history, catalog = cg, cg
	}
	if cfg.Universe.Source == config.SourceWatchlist {
		catalog = wl
	}
	log.Info().Str("provider", history.Name()).Str("universe", cfg.Universe.Source).Msg("data source")

	reg := metrics.New()
	col := collector.NewCollector(history, reg)
	col.LookbackDays = cfg.Provider.LookbackDays
	col.Timeout = cfg.Provider.FetchTimeout
	rk := ranker.New(col, cfg.Ranking.Workers, reg)

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	sched := scheduler.NewScheduler(ctx, rk, catalog, tn, rec, wl)
	sched.Provider = history.Name()
	sched.TopN = cfg.Ranking.TopN
	sched.UniverseLimit = cfg.Universe.Limit
	sched.SaveTop = cfg.Watchlist.SaveTop

	return &app{
		cfg:       cfg,
		metrics:   reg,
		notifier:  tn,
		watchlist: wl,
		recorder:  rec,
		sched:     sched,
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}
