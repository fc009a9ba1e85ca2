package run

import (
	"context"
	"encoding/json"
	"fmt"

	"kbingest/backend/internal/ingest"
)

// Sink stores continuation messages as pending runs instead of
// re-enqueueing them directly. Dispatch succeeds once the row is durable;
// delivery is the dispatcher's job.
type Sink struct {
	repo Repository
}

func NewSink(repo Repository) *Sink {
	return &Sink{repo: repo}
}

func (s *Sink) Dispatch(ctx context.Context, msg ingest.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal continuation: %w", err)
	}
	return s.repo.Save(ctx, payload)
}
