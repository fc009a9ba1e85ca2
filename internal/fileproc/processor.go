package fileproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"kbingest/backend/internal/ingest"
	"kbingest/backend/internal/text"
)

// Extractor converts a file reachable at a URL into plain text.
type Extractor interface {
	Extract(ctx context.Context, fileURL string) (*Extraction, error)
}

// Processor extracts and chunks files. Results are cached by url and
// content hash: a file is split once, and subsequent batch pages of the
// same unchanged file reuse the same chunk list, so every page slices
// identical offsets.
type Processor struct {
	extractor Extractor
	chunkSize int
	overlap   int

	mu    sync.Mutex
	cache map[string]*ingest.FileResult
}

func NewProcessor(extractor Extractor, chunkSize, overlap int) *Processor {
	return &Processor{
		extractor: extractor,
		chunkSize: chunkSize,
		overlap:   overlap,
		cache:     make(map[string]*ingest.FileResult),
	}
}

func (p *Processor) ProcessFile(ctx context.Context, fileURL string) (*ingest.FileResult, error) {
	ex, err := p.extractor.Extract(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	if ex.Text == "" {
		return nil, fmt.Errorf("no text extracted from %s", fileURL)
	}

	sum := sha256.Sum256([]byte(ex.Text))
	hash := hex.EncodeToString(sum[:])
	key := fileURL + "\x00" + hash

	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache[key]; ok {
		return cached, nil
	}

	pieces := text.Split(ex.Text, p.chunkSize, p.overlap)
	chunks := make([]ingest.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = ingest.Chunk{Text: piece}
	}

	meta := map[string]interface{}{
		"chunkCount":  strconv.Itoa(len(chunks)),
		"contentHash": hash,
	}
	if ex.ContentType != "" {
		meta["contentType"] = ex.ContentType
	}
	if ex.Title != "" {
		meta["title"] = ex.Title
	}

	result := &ingest.FileResult{Chunks: chunks, Metadata: meta}
	p.cache[key] = result
	return result, nil
}
