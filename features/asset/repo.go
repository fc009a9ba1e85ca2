package asset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	Get(ctx context.Context, workspace, fileURL string) (*Record, error)
	Upsert(ctx context.Context, rec *Record) error
	MarkFailed(ctx context.Context, workspace, fileURL string) error
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// Get returns (nil, nil) when no record exists; the first successful batch
// creates it.
func (r *PostgresRepo) Get(ctx context.Context, workspace, fileURL string) (*Record, error) {
	rec := &Record{Workspace: workspace, FileURL: fileURL}
	var metadata []byte
	query := `SELECT doc_ids, filename, metadata, status, created_at, updated_at FROM assets WHERE workspace = $1 AND file_url = $2`
	err := r.db.QueryRowContext(ctx, query, workspace, fileURL).
		Scan(pq.Array(&rec.DocIDs), &rec.Filename, &metadata, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Upsert replaces doc_ids, filename, and metadata wholesale. Appending to
// doc_ids is the caller's read-modify-write; metadata is overwritten with
// each batch's file-level metadata, not merged across batches.
func (r *PostgresRepo) Upsert(ctx context.Context, rec *Record) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO assets (workspace, file_url, doc_ids, filename, metadata, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace, file_url)
		DO UPDATE SET doc_ids = EXCLUDED.doc_ids, filename = EXCLUDED.filename, metadata = EXCLUDED.metadata, status = EXCLUDED.status, updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, rec.Workspace, rec.FileURL, pq.Array(rec.DocIDs), rec.Filename, string(metadata), rec.Status)
	return err
}

// MarkFailed flips the record to failed, creating a stub row if ingestion
// died before the first batch ever wrote one.
func (r *PostgresRepo) MarkFailed(ctx context.Context, workspace, fileURL string) error {
	query := `
		INSERT INTO assets (workspace, file_url, doc_ids, filename, metadata, status)
		VALUES ($1, $2, '{}', $2, 'null', $3)
		ON CONFLICT (workspace, file_url)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, workspace, fileURL, StatusFailed)
	return err
}
