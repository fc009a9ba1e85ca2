package fileproc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoclingClient_Extract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/convert", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "http://files/guide.pdf", body["url"])

		json.NewEncoder(w).Encode(map[string]string{
			"text":         "extracted guide text",
			"title":        "User Guide",
			"content_type": "application/pdf",
		})
	}))
	defer ts.Close()

	client := NewDoclingClient(ts.URL)
	ex, err := client.Extract(context.Background(), "http://files/guide.pdf")
	require.NoError(t, err)
	assert.Equal(t, "extracted guide text", ex.Text)
	assert.Equal(t, "User Guide", ex.Title)
	assert.Equal(t, "application/pdf", ex.ContentType)
}

func TestDoclingClient_Extract_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported format", http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	client := NewDoclingClient(ts.URL)
	_, err := client.Extract(context.Background(), "http://files/image.bmp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "unsupported format")
}
