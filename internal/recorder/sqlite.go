package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists ranking runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ranking_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			provider    TEXT,
			universe    INTEGER,
			scored      INTEGER,
			skipped     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON ranking_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS ranking_results (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL REFERENCES ranking_runs(run_id),
			rank                INTEGER NOT NULL,
			asset_id            TEXT NOT NULL,
			symbol              TEXT,
			name                TEXT,
			price               REAL,
			rsi                 REAL,
			macd                REAL,
			macd_signal         REAL,
			bollinger_lband     REAL,
			bollinger_hband     REAL,
			bollinger_bandwidth REAL,
			stochastic_k        REAL,
			stochastic_d        REAL,
			sma50               REAL,
			sma200              REAL,
			score_rsi           REAL,
			score_macd          REAL,
			score_stochastic    REAL,
			score_bollinger     REAL,
			total_score         REAL,
			trend               TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON ranking_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_asset ON ranking_results(asset_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and every ranked result in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO ranking_runs
		(run_id, started_at, finished_at, provider, universe, scored, skipped)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Provider,
		run.Universe, run.Scored(), run.Skipped(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ranking_results
		(run_id, rank, asset_id, symbol, name, price,
		 rsi, macd, macd_signal, bollinger_lband, bollinger_hband, bollinger_bandwidth,
		 stochastic_k, stochastic_d, sma50, sma200,
		 score_rsi, score_macd, score_stochastic, score_bollinger, total_score, trend)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range run.Results {
		ind := res.Indicators
		if _, err := stmt.ExecContext(ctx,
			run.ID, i+1, res.ID, res.Symbol, res.Name, ind.Price,
			ind.RSI, ind.MACD, ind.MACDSignal, ind.BollingerLBand, ind.BollingerHBand, ind.BollingerBandwidth,
			ind.StochasticK, ind.StochasticD, nullable(ind.SMA50), nullable(ind.SMA200),
			res.Scores.RSI, res.Scores.MACD, res.Scores.Stochastic, res.Scores.Bollinger,
			res.TotalScore, res.Trend.String(),
		); err != nil {
			return fmt.Errorf("insert result %s: %w", res.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Debug().Str("run", run.ID).Int("results", len(run.Results)).Msg("run recorded")
	return nil
}

func nullable(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
