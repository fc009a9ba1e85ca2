package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubKeys struct {
	key string
	err error
}

func (s *stubKeys) APIKey(context.Context, string) (string, error) { return s.key, s.err }

func TestWorkspaceEmbedder_Embed_NoKey(t *testing.T) {
	embedder := NewWorkspaceEmbedder(&stubKeys{key: ""})

	_, err := embedder.Embed(context.Background(), "ws1", []string{"hello"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key not configured")
}

func TestWorkspaceEmbedder_Embed_KeySourceError(t *testing.T) {
	embedder := NewWorkspaceEmbedder(&stubKeys{err: errors.New("db fail")})

	_, err := embedder.Embed(context.Background(), "ws1", []string{"hello"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve workspace key")
}

func TestWorkspaceEmbedder_ClientCaching(t *testing.T) {
	embedder := NewWorkspaceEmbedder(&stubKeys{key: "key1"})
	defer embedder.Close()

	ctx := context.Background()

	// First call initializes a client for the key.
	client1, err := embedder.getClient(ctx, "key1")
	assert.NoError(t, err)
	assert.NotNil(t, client1)

	// Same key reuses the client.
	client2, err := embedder.getClient(ctx, "key1")
	assert.NoError(t, err)
	assert.Same(t, client1, client2)

	// A different key gets its own client.
	client3, err := embedder.getClient(ctx, "key2")
	assert.NoError(t, err)
	assert.NotSame(t, client1, client3)
}
