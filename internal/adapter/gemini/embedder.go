package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const embeddingModel = "gemini-embedding-001"

// KeySource resolves the embedding API key for a workspace.
type KeySource interface {
	APIKey(ctx context.Context, workspace string) (string, error)
}

// WorkspaceEmbedder embeds batches of texts with per-workspace credentials.
// One genai client is kept per key and rebuilt when the key rotates.
type WorkspaceEmbedder struct {
	keys       KeySource
	mu         sync.RWMutex
	clients    map[string]*genai.Client
	clientOpts []option.ClientOption
}

func NewWorkspaceEmbedder(keys KeySource, opts ...option.ClientOption) *WorkspaceEmbedder {
	return &WorkspaceEmbedder{
		keys:       keys,
		clients:    make(map[string]*genai.Client),
		clientOpts: opts,
	}
}

// Embed returns one vector per text, in input order. The order alignment is
// part of the contract: callers zip results back to inputs by position.
func (e *WorkspaceEmbedder) Embed(ctx context.Context, workspace string, texts []string) ([][]float32, error) {
	key, err := e.keys.APIKey(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace key: %w", err)
	}
	if key == "" {
		return nil, fmt.Errorf("gemini api key not configured for workspace %q", workspace)
	}

	client, err := e.getClient(ctx, key)
	if err != nil {
		return nil, err
	}

	em := client.EmbeddingModel(embeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	slog.DebugContext(ctx, "embedding batch", "model", embeddingModel, "count", len(texts))
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(res.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding received at position %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (e *WorkspaceEmbedder) getClient(ctx context.Context, key string) (*genai.Client, error) {
	e.mu.RLock()
	if client, ok := e.clients[key]; ok {
		e.mu.RUnlock()
		return client, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if client, ok := e.clients[key]; ok {
		return client, nil
	}

	opts := append(e.clientOpts, option.WithAPIKey(key))
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	e.clients[key] = client
	return client, nil
}

// Close releases all cached clients.
func (e *WorkspaceEmbedder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, client := range e.clients {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close genai client", "error", err)
		}
		delete(e.clients, key)
	}
}
