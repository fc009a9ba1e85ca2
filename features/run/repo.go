package run

import (
	"context"
	"database/sql"
	"encoding/json"
)

type Repository interface {
	Save(ctx context.Context, payload json.RawMessage) error
	ListPending(ctx context.Context, limit int) ([]Run, error)
	MarkDispatched(ctx context.Context, id int64) error
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, payload json.RawMessage) error {
	query := `INSERT INTO ingestion_runs (payload, status) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, string(payload), StatusPending)
	return err
}

func (r *PostgresRepo) ListPending(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, payload, status, created_at FROM ingestion_runs WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var payload []byte
		if err := rows.Scan(&run.ID, &payload, &run.Status, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Payload = json.RawMessage(payload)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresRepo) MarkDispatched(ctx context.Context, id int64) error {
	query := `UPDATE ingestion_runs SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, StatusDispatched, id)
	return err
}
