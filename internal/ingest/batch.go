package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"kbingest/backend/features/asset"
	"kbingest/backend/internal/config"
)

// BatchProcessor processes exactly one page of one file's chunks: slice,
// embed, upsert, reconcile the asset record, and report whether more pages
// remain. It never decides retry policy; every error propagates to the
// delivery handler after compensating cleanup.
type BatchProcessor struct {
	files     FileProcessor
	embedder  Embedder
	vectors   VectorStore
	assets    AssetStore
	creds     Credentials
	batchSize int
}

func NewBatchProcessor(f FileProcessor, e Embedder, v VectorStore, a AssetStore, c Credentials, batchSize int) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &BatchProcessor{
		files:     f,
		embedder:  e,
		vectors:   v,
		assets:    a,
		creds:     c,
		batchSize: batchSize,
	}
}

func (p *BatchProcessor) ProcessBatch(ctx context.Context, msg Message) (BatchResult, error) {
	key, err := p.creds.APIKey(ctx, msg.Workspace)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: resolving credentials for workspace %q: %v", ErrConfiguration, msg.Workspace, err)
	}
	if key == "" {
		return BatchResult{}, fmt.Errorf("%w: no embedding credentials for workspace %q", ErrConfiguration, msg.Workspace)
	}

	file, err := p.files.ProcessFile(ctx, msg.FileURL)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: processing %q: %v", ErrProcessing, msg.FileURL, err)
	}

	// TotalPages comes from the message once known. It is deliberately never
	// recomputed mid-run so a changed chunk count cannot drift the page math
	// for a file that is already being paginated.
	totalPages := msg.TotalPages
	if totalPages == 0 {
		totalPages = (len(file.Chunks) + p.batchSize - 1) / p.batchSize
	}

	start := msg.BatchPage * p.batchSize
	if start >= len(file.Chunks) {
		// Page beyond range: a well-formed completion, not an error.
		slog.InfoContext(ctx, "batch page beyond chunk range, treating as complete",
			"file_url", msg.FileURL, "batch_page", msg.BatchPage, "chunk_count", len(file.Chunks))
		return BatchResult{HasMore: false, BatchPage: msg.BatchPage + 1, TotalPages: totalPages}, nil
	}
	end := start + p.batchSize
	if end > len(file.Chunks) {
		end = len(file.Chunks)
	}
	slice := file.Chunks[start:end]

	fileMeta := p.fileMetadata(msg, file)

	texts := make([]string, len(slice))
	payloads := make([]map[string]any, len(slice))
	for i, c := range slice {
		merged := make(map[string]any, len(fileMeta)+len(c.Metadata)+2)
		for k, v := range fileMeta {
			merged[k] = v
		}
		for k, v := range c.Metadata {
			merged[k] = v
		}
		// chunkIndex is absolute within the file, not within the page, so
		// global order survives pagination.
		merged["chunkIndex"] = start + i
		merged["content"] = c.Text

		texts[i] = c.Text
		payloads[i] = merged
	}

	embeddings, err := p.embedder.Embed(ctx, msg.Workspace, texts)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: embedding %d chunks: %v", ErrProcessing, len(texts), err)
	}
	if len(embeddings) != len(texts) {
		return BatchResult{}, fmt.Errorf("%w: embedder returned %d vectors for %d texts", ErrProcessing, len(embeddings), len(texts))
	}

	ids, err := p.vectors.Upsert(ctx, msg.KnowledgeBaseName, embeddings, payloads)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: upserting %d vectors: %v", ErrProcessing, len(embeddings), err)
	}

	if err := p.updateAssetRecord(ctx, msg, ids, fileMeta); err != nil {
		// Compensate: the vectors created by THIS batch must not outlive a
		// failed record write. Best effort; the original error still wins.
		p.cleanupVectors(ctx, msg.KnowledgeBaseName, ids)
		return BatchResult{}, err
	}

	hasMore := msg.BatchPage+1 < totalPages
	slog.InfoContext(ctx, "batch processed",
		"file_url", msg.FileURL, "batch_page", msg.BatchPage,
		"chunks", len(slice), "total_pages", totalPages, "has_more", hasMore)

	return BatchResult{HasMore: hasMore, BatchPage: msg.BatchPage + 1, TotalPages: totalPages}, nil
}

// fileMetadata merges the file-level layers, lowest precedence first:
// caller-supplied tags, processor-derived fields, then the identity field.
func (p *BatchProcessor) fileMetadata(msg Message, file *FileResult) map[string]any {
	merged := make(map[string]any, len(msg.Metadata)+len(file.Metadata)+1)
	for k, v := range msg.Metadata {
		merged[k] = v
	}
	for k, v := range file.Metadata {
		merged[k] = v
	}
	merged["source"] = msg.Identity()
	return merged
}

func (p *BatchProcessor) updateAssetRecord(ctx context.Context, msg Message, newIDs []string, fileMeta map[string]any) error {
	rec, err := p.assets.Get(ctx, msg.Workspace, msg.FileURL)
	if err != nil {
		return fmt.Errorf("%w: reading asset record: %v", ErrPersistence, err)
	}

	var docIDs []string
	if rec != nil {
		docIDs = rec.DocIDs
	}
	docIDs = append(docIDs, newIDs...)

	updated := &asset.Record{
		Workspace: msg.Workspace,
		FileURL:   msg.FileURL,
		DocIDs:    docIDs,
		Filename:  msg.DisplayName(),
		Metadata:  fileMeta,
		Status:    asset.StatusActive,
	}
	if err := p.assets.Upsert(ctx, updated); err != nil {
		return fmt.Errorf("%w: writing asset record: %v", ErrPersistence, err)
	}
	return nil
}

// cleanupVectors deletes this batch's vectors after a post-upsert failure.
// Delete failures are logged, never raised, so the original error is not
// masked.
func (p *BatchProcessor) cleanupVectors(ctx context.Context, index string, ids []string) {
	for _, id := range ids {
		if err := p.vectors.DeleteVector(ctx, index, id); err != nil {
			slog.ErrorContext(ctx, "failed to delete vector during cleanup", "index", index, "id", id, "error", err)
		}
	}
	slog.WarnContext(ctx, "cleaned up vectors for failed batch", "index", index, "count", len(ids))
}
