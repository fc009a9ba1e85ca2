package settings

import (
	"context"
	"database/sql"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Get(ctx context.Context, workspace string) (*Workspace, error) {
	ws := &Workspace{}
	query := `SELECT workspace, gemini_api_key FROM workspace_settings WHERE workspace = $1`
	err := r.db.QueryRowContext(ctx, query, workspace).Scan(&ws.Workspace, &ws.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *PostgresRepo) Upsert(ctx context.Context, ws *Workspace) error {
	query := `
		INSERT INTO workspace_settings (workspace, gemini_api_key)
		VALUES ($1, $2)
		ON CONFLICT (workspace)
		DO UPDATE SET gemini_api_key = EXCLUDED.gemini_api_key, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, ws.Workspace, ws.GeminiAPIKey)
	return err
}
