package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"

	"kbingest/backend/internal/ingest"
	"kbingest/backend/internal/middleware"
)

type BatchProcessor interface {
	ProcessBatch(ctx context.Context, msg ingest.Message) (ingest.BatchResult, error)
}

type ContinuationScheduler interface {
	ScheduleNext(ctx context.Context, msg ingest.Message, res ingest.BatchResult) error
}

type AssetFailureMarker interface {
	MarkFailed(ctx context.Context, workspace, fileURL string) error
}

// IngestConsumer handles one inbound batch message per invocation. Returning
// an error requeues the message; returning nil acknowledges it. Validation
// failures are never requeued (malformed messages never become valid), and
// processing failures are requeued until the transport's attempt counter
// passes maxRetries, at which point the asset is marked failed and the
// message acknowledged to stop redelivery.
type IngestConsumer struct {
	processor  BatchProcessor
	scheduler  ContinuationScheduler
	assets     AssetFailureMarker
	maxRetries int
}

func NewIngestConsumer(p BatchProcessor, s ContinuationScheduler, a AssetFailureMarker, maxRetries int) *IngestConsumer {
	return &IngestConsumer{
		processor:  p,
		scheduler:  s,
		assets:     a,
		maxRetries: maxRetries,
	}
}

func (h *IngestConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var msg ingest.Message
	if err := json.Unmarshal(m.Body, &msg); err != nil {
		// Poison pill: invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	if msg.CorrelationID == "" {
		msg.CorrelationID = uuid.New().String()
	}
	ctx := middleware.WithCorrelationID(context.Background(), msg.CorrelationID)

	if err := msg.Validate(); err != nil {
		slog.ErrorContext(ctx, "dropping invalid ingestion message", "error", err, "file_url", msg.FileURL)
		return nil
	}

	res, err := h.processor.ProcessBatch(ctx, msg)
	if err != nil {
		// Attempts counts deliveries including this one, so the first
		// delivery is attempt 1 and maxRetries redeliveries follow it.
		if int(m.Attempts) <= h.maxRetries {
			slog.WarnContext(ctx, "batch failed, requeueing",
				"error", err, "file_url", msg.FileURL, "batch_page", msg.BatchPage, "attempt", m.Attempts)
			return err
		}

		slog.ErrorContext(ctx, "batch failed terminally, marking asset failed",
			"error", err, "file_url", msg.FileURL, "batch_page", msg.BatchPage, "attempt", m.Attempts)
		if markErr := h.assets.MarkFailed(ctx, msg.Workspace, msg.FileURL); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark asset as failed", "error", markErr, "file_url", msg.FileURL)
		}
		return nil
	}

	if res.HasMore {
		if err := h.scheduler.ScheduleNext(ctx, msg, res); err != nil {
			// The batch's vectors and record updates are already durable;
			// requeueing this message would write them all again. Ack, and
			// surface the stall loudly for operators.
			slog.ErrorContext(ctx, "continuation dispatch failed, ingestion stalled",
				"error", err, "file_url", msg.FileURL, "next_page", res.BatchPage, "total_pages", res.TotalPages)
			return nil
		}
		return nil
	}

	slog.InfoContext(ctx, "file ingestion complete",
		"file_url", msg.FileURL, "total_pages", res.TotalPages)
	return nil
}
