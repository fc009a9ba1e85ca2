package run

import (
	"encoding/json"
	"time"
)

const (
	StatusPending    = "pending"
	StatusDispatched = "dispatched"
)

// Run is a durable continuation: the next batch message for a file,
// persisted before the current batch is acknowledged. The dispatcher
// picks pending runs up and publishes them, so an in-flight file survives
// worker restarts.
type Run struct {
	ID        int64           `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
