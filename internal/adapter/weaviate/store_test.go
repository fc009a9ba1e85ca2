package weaviate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	adapter "kbingest/backend/internal/adapter/weaviate"
)

func mockWeaviate(t *testing.T, handler http.HandlerFunc) (*weaviate.Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	cfg := weaviate.Config{Host: ts.Listener.Addr().String(), Scheme: "http"}
	client, err := weaviate.NewClient(cfg)
	assert.NoError(t, err)
	return client, ts
}

// schemaAware wraps a handler with stock responses for the meta and schema
// endpoints so tests only describe the batch traffic they care about.
func schemaAware(t *testing.T, classExists bool, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/meta":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
		case r.Method == "GET" && strings.HasPrefix(r.URL.Path, "/v1/schema/"):
			if classExists {
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"class": strings.TrimPrefix(r.URL.Path, "/v1/schema/"),
					"properties": []map[string]interface{}{
						{"name": "content", "dataType": []string{"text"}},
						{"name": "source", "dataType": []string{"string"}},
						{"name": "chunkIndex", "dataType": []string{"int"}},
						{"name": "contentType", "dataType": []string{"string"}},
						{"name": "title", "dataType": []string{"text"}},
					},
				})
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == "POST" && r.URL.Path == "/v1/schema":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		default:
			handler(w, r)
		}
	}
}

func TestStore_Upsert(t *testing.T) {
	var batched []map[string]interface{}

	client, ts := mockWeaviate(t, schemaAware(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/batch/objects", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		for _, o := range body["objects"].([]interface{}) {
			batched = append(batched, o.(map[string]interface{}))
		}

		var resp []map[string]interface{}
		for _, o := range batched {
			resp = append(resp, map[string]interface{}{
				"id":     o["id"],
				"class":  o["class"],
				"result": map[string]interface{}{"status": "SUCCESS"},
			})
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	store := adapter.NewStore(client)
	ids, err := store.Upsert(context.Background(), "product-docs",
		[][]float32{{0.1, 0.2}, {0.3, 0.4}},
		[]map[string]interface{}{
			{"content": "first", "chunkIndex": 0},
			{"content": "second", "chunkIndex": 1},
		})
	assert.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	assert.Len(t, batched, 2)
	assert.Equal(t, "ProductDocs", batched[0]["class"])
	// Returned ids line up with the submitted objects in order.
	assert.Equal(t, ids[0], batched[0]["id"])
	assert.Equal(t, ids[1], batched[1]["id"])
	props := batched[0]["properties"].(map[string]interface{})
	assert.Equal(t, "first", props["content"])
}

func TestStore_Upsert_CreatesMissingClass(t *testing.T) {
	created := false

	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/meta":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
		case r.Method == "GET" && r.URL.Path == "/v1/schema/EngineeringWiki":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == "POST" && r.URL.Path == "/v1/schema":
			var class map[string]interface{}
			json.NewDecoder(r.Body).Decode(&class)
			assert.Equal(t, "EngineeringWiki", class["class"])
			created = true
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		case r.URL.Path == "/v1/batch/objects":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[{"result": {"status": "SUCCESS"}}]`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	defer ts.Close()

	store := adapter.NewStore(client)
	_, err := store.Upsert(context.Background(), "engineering_wiki",
		[][]float32{{0.5}},
		[]map[string]interface{}{{"content": "only"}})
	assert.NoError(t, err)
	assert.True(t, created, "missing class should be created before the batch")
}

func TestStore_Upsert_BatchError(t *testing.T) {
	client, ts := mockWeaviate(t, schemaAware(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"result": {"status": "FAILED", "errors": {"error": [{"message": "vector length mismatch"}]}}}]`))
	}))
	defer ts.Close()

	store := adapter.NewStore(client)
	_, err := store.Upsert(context.Background(), "product-docs",
		[][]float32{{0.1}},
		[]map[string]interface{}{{"content": "bad"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "vector length mismatch")
}

func TestStore_Upsert_CountMismatch(t *testing.T) {
	client, ts := mockWeaviate(t, schemaAware(t, true, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer ts.Close()

	store := adapter.NewStore(client)
	_, err := store.Upsert(context.Background(), "product-docs",
		[][]float32{{0.1}, {0.2}},
		[]map[string]interface{}{{"content": "one"}})
	assert.Error(t, err)
}

func TestStore_DeleteVector(t *testing.T) {
	client, ts := mockWeaviate(t, schemaAware(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/v1/objects/ProductDocs/11111111-2222-3333-4444-555555555555", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	store := adapter.NewStore(client)
	err := store.DeleteVector(context.Background(), "product-docs", "11111111-2222-3333-4444-555555555555")
	assert.NoError(t, err)
}
