package ingest

import (
	"fmt"
	"path"
)

// Message is the unit of work for one batch of one file. It is serialized
// across invocations: all cross-batch state lives here and in the asset
// record, never in process memory.
type Message struct {
	FileURL           string         `json:"fileUrl"`
	Path              string         `json:"path,omitempty"`
	Filename          string         `json:"filename,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	Workspace         string         `json:"workspace"`
	KnowledgeBaseName string         `json:"knowledgeBaseName"`

	// TotalPages is zero until the first batch computes it from the chunk
	// count. Once set it is carried forward verbatim on every continuation;
	// it is never recomputed mid-run.
	TotalPages int `json:"totalPages,omitempty"`

	// BatchPage is the zero-based page to process now. Defaults to 0 on the
	// first message and strictly increases by 1 across continuations.
	BatchPage int `json:"batchPage,omitempty"`

	CorrelationID string `json:"correlationId,omitempty"`
}

// BatchResult reports one completed batch. BatchPage is the NEXT page to
// run, not the one just processed.
type BatchResult struct {
	HasMore    bool
	BatchPage  int
	TotalPages int
}

// Validate checks the message against the wire schema. Unknown extra fields
// are already dropped by json decoding; this only enforces required fields
// and value types.
func (m *Message) Validate() error {
	if m.FileURL == "" {
		return fmt.Errorf("%w: fileUrl is required", ErrValidation)
	}
	if m.Workspace == "" {
		return fmt.Errorf("%w: workspace is required", ErrValidation)
	}
	if m.KnowledgeBaseName == "" {
		return fmt.Errorf("%w: knowledgeBaseName is required", ErrValidation)
	}
	if m.BatchPage < 0 {
		return fmt.Errorf("%w: batchPage must not be negative", ErrValidation)
	}
	if m.TotalPages < 0 {
		return fmt.Errorf("%w: totalPages must not be negative", ErrValidation)
	}
	for k, v := range m.Metadata {
		switch v.(type) {
		case string, bool:
		default:
			return fmt.Errorf("%w: metadata[%q] must be a string or boolean", ErrValidation, k)
		}
	}
	return nil
}

// DisplayName resolves the filename written to the asset record:
// explicit filename, then the basename of path, then the raw file url.
func (m *Message) DisplayName() string {
	if m.Filename != "" {
		return m.Filename
	}
	if m.Path != "" {
		return path.Base(m.Path)
	}
	return m.FileURL
}

// Identity is the locator stored into every chunk's metadata: path when
// present, else the file url.
func (m *Message) Identity() string {
	if m.Path != "" {
		return m.Path
	}
	return m.FileURL
}
