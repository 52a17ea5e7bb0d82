package recorder

import (
	"context"
	"time"

	"MomentumScout/internal/model"
)

// RunRecord holds the outcome of one ranking run.
type RunRecord struct {
	ID         string // assigned by the recorder when empty
	StartedAt  time.Time
	FinishedAt time.Time
	Provider   string
	Universe   int
	Results    model.RankedList
}

// Scored returns the number of assets that produced a score.
func (r *RunRecord) Scored() int { return len(r.Results) }

// Skipped returns the number of universe assets that were dropped.
func (r *RunRecord) Skipped() int {
	if n := r.Universe - len(r.Results); n > 0 {
		return n
	}
	return 0
}

// Recorder persists ranking history for analysis.
type Recorder interface {
	RecordRun(ctx context.Context, run *RunRecord) error
	Close() error
}
