package scheduler

import (
	"context"
	"log"
	"time"

	cache "walletly-server/src/db"
	"walletly-server/src/services"
)

// Scheduler fires the scheduled-transaction engine once a day at a fixed
// hour. All clock math lives here; the engine only ever sees the
// day-of-month it is handed.
type Scheduler struct {
	engine *services.ScheduledEngine
	hour   int
}

func New(engine *services.ScheduledEngine, hour int) *Scheduler {
	return &Scheduler{engine: engine, hour: hour}
}

// Start blocks until ctx is cancelled, running one pass at each daily
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Printf("INFO: Scheduler started, daily run at %02d:00", s.hour)

	for {
		wait := time.Until(s.NextRun(time.Now()))
		select {
		case <-ctx.Done():
			log.Println("INFO: Scheduler stopped")
			return ctx.Err()
		case <-time.After(wait):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now()
	log.Printf("INFO: Executing scheduled transactions for day %d", now.Day())

	results, err := s.engine.ExecuteDay(ctx, now, now.Day())
	if err != nil {
		log.Printf("ERROR: Scheduled execution pass failed: %v", err)
		return
	}

	var applied, skipped, failed int
	for _, r := range results {
		switch r.Outcome {
		case services.OutcomeApplied:
			applied++
		case services.OutcomeSkipped:
			skipped++
		case services.OutcomeFailed:
			failed++
		}
	}
	if applied > 0 {
		cache.ClearAllTransactionCaches()
		cache.ClearAllWalletCaches()
	}
	log.Printf("INFO: Scheduled execution pass complete - applied: %d, skipped: %d, failed: %d", applied, skipped, failed)
}

// NextRun returns the next daily tick at the configured hour strictly
// after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
