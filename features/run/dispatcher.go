package run

import (
	"context"
	"log/slog"
	"time"

	"kbingest/backend/internal/ingest"
)

const dispatchBatchLimit = 100

// Dispatcher polls pending runs and publishes them to the ingestion
// topic. A run is marked dispatched only after publish succeeds, so a
// crash between the two hands the run to the next tick. Consumers may
// therefore see a continuation twice; batch writes tolerate that.
type Dispatcher struct {
	repo     Repository
	pub      ingest.Publisher
	topic    string
	interval time.Duration
}

func NewDispatcher(repo Repository, pub ingest.Publisher, topic string, interval time.Duration) *Dispatcher {
	return &Dispatcher{repo: repo, pub: pub, topic: topic, interval: interval}
}

// Start blocks until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchPending(ctx)
		}
	}
}

// DispatchPending publishes one poll's worth of pending runs. Failures
// stop the pass; the remaining runs stay pending for the next tick.
func (d *Dispatcher) DispatchPending(ctx context.Context) {
	runs, err := d.repo.ListPending(ctx, dispatchBatchLimit)
	if err != nil {
		slog.ErrorContext(ctx, "listing pending runs failed", "error", err)
		return
	}

	for _, run := range runs {
		if err := d.pub.Publish(d.topic, run.Payload); err != nil {
			slog.ErrorContext(ctx, "publishing run failed", "run_id", run.ID, "error", err)
			return
		}
		if err := d.repo.MarkDispatched(ctx, run.ID); err != nil {
			slog.ErrorContext(ctx, "marking run dispatched failed", "run_id", run.ID, "error", err)
			return
		}
	}
}
