package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nyayalens/nyayalens/internal/core/domain"
)

// ArtifactRepository persists artifact metadata rows. The table is
// append-only: rows are inserted and read back, never updated, so a failed
// analysis shows up as a second row for the same document id.
type ArtifactRepository struct {
	db *sql.DB
}

func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ArtifactRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS artifact_records (
	id BIGSERIAL PRIMARY KEY,
	document_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	upload_timestamp TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	storage_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_artifact_records_document_id ON artifact_records(document_id);
CREATE INDEX IF NOT EXISTS idx_artifact_records_upload_timestamp ON artifact_records(upload_timestamp DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ArtifactRepository) Append(ctx context.Context, record *domain.ArtifactRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO artifact_records (document_id, filename, upload_timestamp, status, storage_path)
VALUES ($1,$2,$3,$4,$5)
`,
		record.DocumentID, record.Filename, record.UploadTimestamp, string(record.Status), record.StoragePath,
	)
	if err != nil {
		return fmt.Errorf("insert artifact record: %w", err)
	}
	return nil
}

func (r *ArtifactRepository) ListByDocumentID(ctx context.Context, documentID string) ([]domain.ArtifactRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id, filename, upload_timestamp, status, storage_path
FROM artifact_records
WHERE document_id = $1
ORDER BY upload_timestamp ASC, id ASC
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query artifact records: %w", err)
	}
	defer rows.Close()

	var records []domain.ArtifactRecord
	for rows.Next() {
		var record domain.ArtifactRecord
		var status string
		if err := rows.Scan(
			&record.DocumentID, &record.Filename, &record.UploadTimestamp, &status, &record.StoragePath,
		); err != nil {
			return nil, fmt.Errorf("scan artifact record: %w", err)
		}
		record.Status = domain.ArtifactStatus(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact records: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.WrapError(domain.ErrArtifactNotFound, "list artifact records",
			fmt.Errorf("document_id=%s", documentID))
	}
	return records, nil
}
