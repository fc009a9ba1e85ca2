package settings

import (
	"context"
	"database/sql"
	"errors"
)

// Workspace holds the per-tenant credentials the pipeline needs. A missing
// row or empty key means the workspace has no embedding access.
type Workspace struct {
	Workspace    string `json:"workspace"`
	GeminiAPIKey string `json:"gemini_api_key"`
}

type Repository interface {
	Get(ctx context.Context, workspace string) (*Workspace, error)
	Upsert(ctx context.Context, ws *Workspace) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// APIKey returns the workspace's embedding key, or "" when the workspace is
// not configured. Only infrastructure failures surface as errors.
func (s *Service) APIKey(ctx context.Context, workspace string) (string, error) {
	ws, err := s.repo.Get(ctx, workspace)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ws.GeminiAPIKey, nil
}

// Seed writes a key for a workspace only when none is set yet, so an
// environment-provided key never clobbers one configured at runtime.
func (s *Service) Seed(ctx context.Context, workspace, key string) error {
	existing, err := s.APIKey(ctx, workspace)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}
	return s.repo.Upsert(ctx, &Workspace{Workspace: workspace, GeminiAPIKey: key})
}
