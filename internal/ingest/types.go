package ingest

import (
	"context"

	"kbingest/backend/features/asset"
)

// Chunk is one bounded slice of a file's text, ready for embedding. Chunks
// are ephemeral: only their vector ids outlive a batch.
type Chunk struct {
	Text     string
	Metadata map[string]any
}

// FileResult is the full processed form of one file. Metadata carries
// file-derived fields (chunkCount, contentHash, contentType, title).
type FileResult struct {
	Chunks   []Chunk
	Metadata map[string]any
}

type FileProcessor interface {
	ProcessFile(ctx context.Context, fileURL string) (*FileResult, error)
}

// Embedder returns one vector per input text, in input order. Alignment is
// load-bearing: metadata is zipped back by position, not by id.
type Embedder interface {
	Embed(ctx context.Context, workspace string, texts []string) ([][]float32, error)
}

// VectorStore persists vectors with their payloads. Upsert returns the new
// ids order-aligned with its inputs.
type VectorStore interface {
	Upsert(ctx context.Context, index string, vectors [][]float32, payloads []map[string]any) ([]string, error)
	DeleteVector(ctx context.Context, index, id string) error
}

type AssetStore interface {
	Get(ctx context.Context, workspace, fileURL string) (*asset.Record, error)
	Upsert(ctx context.Context, rec *asset.Record) error
}

// Credentials resolves the embedding key for a workspace. An empty key
// means the workspace has no embedding access configured.
type Credentials interface {
	APIKey(ctx context.Context, workspace string) (string, error)
}

// ContinuationSink delivers a follow-up message with at-least-once
// semantics. Implementations re-enqueue onto the inbound topic or start a
// durable run; either satisfies the contract.
type ContinuationSink interface {
	Dispatch(ctx context.Context, msg Message) error
}

// Publisher is the slice of the queue producer the sink needs.
type Publisher interface {
	Publish(topic string, body []byte) error
}
