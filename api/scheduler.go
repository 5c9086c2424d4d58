/*
scheduler.go - Expired draft cleanup

PURPOSE:
  Wizard sessions are abandoned all the time. The Redis backend expires them
  with a key TTL; the SQLite backend has no TTL, so this scheduler deletes
  drafts that have not been touched for longer than the configured TTL.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Purges once immediately on start
  - Stop waits for an in-flight purge to finish

USAGE:
  janitor := NewDraftJanitor(store, 24*time.Hour, logger)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - store/sqlite/drafts.go: PurgeBefore
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DraftPurger deletes drafts last written before cutoff.
type DraftPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DraftJanitor periodically purges expired drafts.
type DraftJanitor struct {
	Purger        DraftPurger
	TTL           time.Duration
	CheckInterval time.Duration
	Logger        *slog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	now    func() time.Time
}

// NewDraftJanitor creates a janitor checking every TTL/4, at most hourly.
func NewDraftJanitor(purger DraftPurger, ttl time.Duration, logger *slog.Logger) *DraftJanitor {
	interval := ttl / 4
	if interval > time.Hour || interval <= 0 {
		interval = time.Hour
	}
	return &DraftJanitor{
		Purger:        purger,
		TTL:           ttl,
		CheckInterval: interval,
		Logger:        logger,
		stop:          make(chan struct{}),
		now:           time.Now,
	}
}

// Start begins the janitor. A zero TTL keeps drafts forever and Start is a no-op.
func (j *DraftJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.TTL <= 0 || j.ticker != nil {
		return
	}

	j.ticker = time.NewTicker(j.CheckInterval)
	j.wg.Add(1)
	go j.run()

	j.Logger.Info("draft janitor started", "ttl", j.TTL.String(), "interval", j.CheckInterval.String())
}

// Stop stops the janitor.
func (j *DraftJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.ticker != nil {
		j.ticker.Stop()
		close(j.stop)
		j.wg.Wait()
		j.ticker = nil
		j.Logger.Info("draft janitor stopped")
	}
}

func (j *DraftJanitor) run() {
	defer j.wg.Done()

	j.Purge(context.Background())

	for {
		select {
		case <-j.ticker.C:
			j.Purge(context.Background())
		case <-j.stop:
			return
		}
	}
}

// Purge deletes drafts older than the TTL once and returns how many went.
func (j *DraftJanitor) Purge(ctx context.Context) int64 {
	n, err := j.Purger.PurgeBefore(ctx, j.now().Add(-j.TTL))
	if err != nil {
		j.Logger.Error("draft purge failed", "error", err)
		return 0
	}
	if n > 0 {
		j.Logger.Info("expired drafts purged", "count", n)
	}
	return n
}
