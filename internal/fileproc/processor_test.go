package fileproc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text        string
	title       string
	contentType string
	err         error
	calls       int
}

func (f *fakeExtractor) Extract(ctx context.Context, fileURL string) (*Extraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Extraction{Text: f.text, Title: f.title, ContentType: f.contentType}, nil
}

func TestProcessor_ChunksAndMetadata(t *testing.T) {
	ex := &fakeExtractor{
		text:        strings.Repeat("alpha beta gamma delta ", 50),
		title:       "Runbook",
		contentType: "application/pdf",
	}
	p := NewProcessor(ex, 100, 20)

	result, err := p.ProcessFile(context.Background(), "http://files/runbook.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	assert.Equal(t, "Runbook", result.Metadata["title"])
	assert.Equal(t, "application/pdf", result.Metadata["contentType"])
	assert.NotEmpty(t, result.Metadata["contentHash"])
	assert.Equal(t, len(result.Chunks), atoi(t, result.Metadata["chunkCount"]))
}

func TestProcessor_CachesUnchangedContent(t *testing.T) {
	ex := &fakeExtractor{text: strings.Repeat("stable content ", 40)}
	p := NewProcessor(ex, 80, 10)

	first, err := p.ProcessFile(context.Background(), "http://files/doc.md")
	require.NoError(t, err)
	second, err := p.ProcessFile(context.Background(), "http://files/doc.md")
	require.NoError(t, err)

	// Extraction always runs (it is how we learn the content changed),
	// but the chunk list is reused so page offsets stay consistent.
	assert.Equal(t, 2, ex.calls)
	assert.Same(t, first, second)
}

func TestProcessor_RechunksChangedContent(t *testing.T) {
	ex := &fakeExtractor{text: strings.Repeat("version one ", 40)}
	p := NewProcessor(ex, 80, 10)

	first, err := p.ProcessFile(context.Background(), "http://files/doc.md")
	require.NoError(t, err)

	ex.text = strings.Repeat("version two rewritten ", 40)
	second, err := p.ProcessFile(context.Background(), "http://files/doc.md")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.Metadata["contentHash"], second.Metadata["contentHash"])
}

func TestProcessor_EmptyExtraction(t *testing.T) {
	p := NewProcessor(&fakeExtractor{text: ""}, 80, 10)
	_, err := p.ProcessFile(context.Background(), "http://files/empty.pdf")
	assert.Error(t, err)
}

func TestProcessor_ExtractorError(t *testing.T) {
	p := NewProcessor(&fakeExtractor{err: errors.New("conversion timed out")}, 80, 10)
	_, err := p.ProcessFile(context.Background(), "http://files/huge.pdf")
	assert.ErrorContains(t, err, "conversion timed out")
}

func atoi(t *testing.T, v any) int {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected string, got %T", v)
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
