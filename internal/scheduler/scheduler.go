// Package scheduler runs the cron job that prunes old extraction and fill
// history.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the prune once a day at 03:00.
const DefaultSpec = "0 3 * * *"

// Pruner deletes history older than cutoff.
type Pruner interface {
	PruneHistory(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler wraps robfig/cron and manages the retention loop.
type Scheduler struct {
	cron      *cron.Cron
	pruner    Pruner
	retention time.Duration
	spec      string // cron spec, e.g. "0 3 * * *" or "@every 6h"
	now       func() time.Time
}

// New creates a Scheduler that keeps retentionDays of history.
func New(pruner Pruner, retentionDays int, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		spec:      spec,
		now:       time.Now,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.retention <= 0 {
		log.Println("[scheduler] History retention disabled; not scheduling prune")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s, retention: %s", s.spec, s.retention)
	return nil
}

// Stop gracefully shuts down the scheduler and waits for a running prune.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce prunes everything older than the retention window. It returns the
// number of rows removed.
func (s *Scheduler) RunOnce(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.retention)
	log.Printf("[scheduler] Pruning history before %s", cutoff.Format(time.RFC3339))

	removed, err := s.pruner.PruneHistory(ctx, cutoff)
	if err != nil {
		log.Printf("[scheduler] PruneHistory error: %v", err)
		return removed
	}

	log.Printf("[scheduler] Prune complete, %d row(s) removed", removed)
	return removed
}
