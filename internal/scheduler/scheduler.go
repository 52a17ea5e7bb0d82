package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MomentumScout/internal/collector"
	"MomentumScout/internal/model"
	"MomentumScout/internal/notifier"
	"MomentumScout/internal/ranker"
	"MomentumScout/internal/recorder"
	"MomentumScout/internal/watchlist"
)

// ErrRunInProgress is returned when a ranking run is triggered while another is in flight.
var ErrRunInProgress = errors.New("ranking run already in progress")

// Scheduler runs the ranking job on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Ranker    *ranker.Ranker
	Catalog   collector.CatalogProvider
	Provider  string
	Notifier  *notifier.TelegramNotifier // nil disables Telegram reports
	Recorder  recorder.Recorder
	Watchlist *watchlist.Store // nil disables /watchlist and save_top
	Ctx       context.Context

	TopN          int
	UniverseLimit int       // 0 ranks the whole catalog
	SaveTop       bool      // merge each run's top-N into the watchlist
	Out           io.Writer // console report destination, nil to skip

	running atomic.Bool
	mu      sync.Mutex
	last    *recorder.RunRecord
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, rk *ranker.Ranker, catalog collector.CatalogProvider, tn *notifier.TelegramNotifier, rec recorder.Recorder, wl *watchlist.Store) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Ranker:    rk,
		Catalog:   catalog,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: wl,
		Ctx:       ctx,
		TopN:      ranker.DefaultTopN,
	}
}

// Register adds the ranking job on the given cron spec (with seconds field).
func (s *Scheduler) Register(rankCron string) error {
	if _, err := s.Cron.AddFunc(rankCron, s.rankTask); err != nil {
		return fmt.Errorf("register rank task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Last returns the most recent successful run, or nil.
func (s *Scheduler) Last() *recorder.RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) rankTask() {
	if _, err := s.RunOnce(); err != nil && !errors.Is(err, ErrRunInProgress) {
		log.Error().Err(err).Msg("ranking task")
	}
}

// RunOnce executes one ranking run: list the universe, rank it, report the
// top-N, record the run and optionally merge the top-N into the watchlist.
func (s *Scheduler) RunOnce() (*recorder.RunRecord, error) {
	if !s.running.CompareAndSwap(false, true) {
		log.Warn().Msg("ranking run already in progress, skipping trigger")
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	log.Info().Str("provider", s.Provider).Msg("running ranking task")
	started := time.Now()
	catalog := &limitedCatalog{CatalogProvider: s.Catalog, limit: s.UniverseLimit}
	ranked, err := s.Ranker.Run(s.Ctx, catalog, ranker.NewResults())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.trySend(fmt.Sprintf("❌ ranking run failed: %v", err))
		}
		return nil, err
	}

	run := &recorder.RunRecord{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Provider:   s.Provider,
		Universe:   catalog.listed,
		Results:    ranked,
	}

	if s.Out != nil {
		fmt.Fprint(s.Out, notifier.FormatReport(ranked, s.TopN))
	}
	s.trySend(notifier.FormatTelegramReport(ranked, s.TopN, run.Scored(), run.Universe))

	if err := s.Recorder.RecordRun(s.Ctx, run); err != nil {
		log.Error().Err(err).Msg("record run")
	}
	if s.SaveTop && s.Watchlist != nil {
		if err := s.Watchlist.MergeRanked(ranked, s.TopN); err != nil {
			log.Error().Err(err).Msg("save watchlist")
		}
	}

	s.mu.Lock()
	s.last = run
	s.mu.Unlock()
	return run, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	cmd, _, _ = strings.Cut(cmd, "@")

	switch strings.ToLower(cmd) {
	case "/top":
		last := s.Last()
		if last == nil {
			return "No ranking run yet. Send /rank to start one."
		}
		return notifier.FormatTelegramReport(last.Results, s.TopN, last.Scored(), last.Universe)
	case "/rank":
		if s.running.Load() {
			return "A ranking run is already in progress."
		}
		go s.rankTask()
		return "Ranking run started, the report follows when it completes."
	case "/watchlist":
		if s.Watchlist == nil {
			return "Watchlist is not configured."
		}
		return notifier.FormatWatchlist(s.Watchlist.Assets())
	default:
		return "Available commands:\n• /top latest top candidates\n• /rank start a ranking run\n• /watchlist show watched assets"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// limitedCatalog truncates the listed universe and remembers its size.
type limitedCatalog struct {
	collector.CatalogProvider
	limit  int
	listed int
}

func (l *limitedCatalog) ListAssets(ctx context.Context) ([]model.Asset, error) {
	assets, err := l.CatalogProvider.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	if l.limit > 0 && len(assets) > l.limit {
		assets = assets[:l.limit]
	}
	l.listed = len(assets)
	return assets, nil
}
