package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Scheduler emits exactly one follow-up message per batch that reports more
// pages remaining. All fields of the original message carry forward; only
// batchPage and totalPages change.
type Scheduler struct {
	sink ContinuationSink
}

func NewScheduler(sink ContinuationSink) *Scheduler {
	return &Scheduler{sink: sink}
}

func (s *Scheduler) ScheduleNext(ctx context.Context, original Message, res BatchResult) error {
	if s.sink == nil {
		return fmt.Errorf("%w: no continuation sink configured", ErrDispatch)
	}

	next := original
	next.BatchPage = res.BatchPage
	next.TotalPages = res.TotalPages

	if err := s.sink.Dispatch(ctx, next); err != nil {
		return fmt.Errorf("%w: page %d of %q: %v", ErrDispatch, next.BatchPage, next.FileURL, err)
	}

	slog.InfoContext(ctx, "continuation scheduled",
		"file_url", next.FileURL, "batch_page", next.BatchPage, "total_pages", next.TotalPages)
	return nil
}

// QueueSink re-enqueues the continuation onto the same inbound topic the
// delivery handler consumes.
type QueueSink struct {
	pub   Publisher
	topic string
}

func NewQueueSink(pub Publisher, topic string) *QueueSink {
	return &QueueSink{pub: pub, topic: topic}
}

func (s *QueueSink) Dispatch(_ context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic, body)
}
