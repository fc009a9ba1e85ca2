package asset

import "time"

const (
	StatusActive = "active"
	StatusFailed = "failed"
)

// Record is the durable per-file bookkeeping row, keyed by
// (workspace, file_url). DocIDs accumulates every vector id produced by
// every batch of the file's ingestion run, in batch order.
type Record struct {
	Workspace string         `json:"workspace"`
	FileURL   string         `json:"file_url"`
	DocIDs    []string       `json:"doc_ids"`
	Filename  string         `json:"filename"`
	Metadata  map[string]any `json:"metadata"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
