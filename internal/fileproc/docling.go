package fileproc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Extraction is the converted form of a source file: plain text plus
// whatever the converter could tell us about the document.
type Extraction struct {
	Text        string `json:"text"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
}

// DoclingClient calls a docling conversion service to turn files
// (PDF, DOCX, HTML, markdown) into plain text.
type DoclingClient struct {
	baseURL string
	http    *http.Client
}

func NewDoclingClient(baseURL string) *DoclingClient {
	return &DoclingClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *DoclingClient) Extract(ctx context.Context, fileURL string) (*Extraction, error) {
	payload, err := json.Marshal(map[string]string{"url": fileURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/convert", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docling request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("docling convert %s: status %d: %s", fileURL, resp.StatusCode, string(body))
	}

	var out Extraction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("docling response: %w", err)
	}
	return &out, nil
}
