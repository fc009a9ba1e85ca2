package weaviate

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"

	"kbingest/backend/internal/vector"
)

// Store persists chunk vectors in Weaviate, one class per knowledge base.
// Object ids are generated client-side so the caller gets them back in
// chunk order without a second round trip.
type Store struct {
	client *weaviate.Client
	schema vector.SchemaClient

	mu      sync.Mutex
	ensured map[string]bool
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{
		client:  client,
		schema:  vector.NewSchemaAdapter(client),
		ensured: make(map[string]bool),
	}
}

func (s *Store) Upsert(ctx context.Context, index string, vectors [][]float32, payloads []map[string]interface{}) ([]string, error) {
	if len(vectors) != len(payloads) {
		return nil, fmt.Errorf("vector/payload count mismatch: %d vs %d", len(vectors), len(payloads))
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	className := vector.ClassName(index)
	if err := s.ensureClass(ctx, className); err != nil {
		return nil, fmt.Errorf("ensure class %s: %w", className, err)
	}

	ids := make([]string, len(vectors))
	objects := make([]*models.Object, len(vectors))
	for i := range vectors {
		id := uuid.New().String()
		ids[i] = id
		objects[i] = &models.Object{
			ID:         strfmt.UUID(id),
			Class:      className,
			Properties: payloads[i],
			Vector:     vectors[i],
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().
		WithObjects(objects...).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return nil, fmt.Errorf("batch insert into %s: %s", className, obj.Result.Errors.Error[0].Message)
		}
	}

	return ids, nil
}

func (s *Store) DeleteVector(ctx context.Context, index, id string) error {
	return s.client.Data().Deleter().
		WithClassName(vector.ClassName(index)).
		WithID(id).
		Do(ctx)
}

func (s *Store) ensureClass(ctx context.Context, className string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured[className] {
		return nil
	}
	if err := vector.EnsureClass(ctx, s.schema, className); err != nil {
		return err
	}
	s.ensured[className] = true
	return nil
}
