package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nyayalens/nyayalens/internal/core/domain"
)

func newMockRepo(t *testing.T) (*ArtifactRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewArtifactRepository(db), mock
}

func TestAppendInsertsRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO artifact_records`).
		WithArgs("doc-1", "contract.pdf", now, "received", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), &domain.ArtifactRecord{
		DocumentID:      "doc-1",
		Filename:        "contract.pdf",
		UploadTimestamp: now,
		Status:          domain.StatusReceived,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendWrapsDriverError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO artifact_records`).
		WillReturnError(errors.New("connection refused"))

	err := repo.Append(context.Background(), &domain.ArtifactRecord{
		DocumentID:      "doc-1",
		Filename:        "a.txt",
		UploadTimestamp: time.Now().UTC(),
		Status:          domain.StatusReceived,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestListByDocumentIDReturnsRowsInOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	first := time.Now().UTC().Add(-time.Minute)
	second := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"document_id", "filename", "upload_timestamp", "status", "storage_path"}).
		AddRow("doc-1", "contract.pdf", first, "received", "").
		AddRow("doc-1", "contract.pdf", second, "analyzed", "uploads/doc-1/contract.pdf")
	mock.ExpectQuery(`SELECT document_id, filename, upload_timestamp, status, storage_path`).
		WithArgs("doc-1").
		WillReturnRows(rows)

	records, err := repo.ListByDocumentID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocumentID() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Status != domain.StatusReceived || records[1].Status != domain.StatusAnalyzed {
		t.Fatalf("unexpected statuses: %+v", records)
	}
	if records[1].StoragePath != "uploads/doc-1/contract.pdf" {
		t.Fatalf("unexpected storage path %q", records[1].StoragePath)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByDocumentIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT document_id, filename, upload_timestamp, status, storage_path`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"document_id", "filename", "upload_timestamp", "status", "storage_path"}))

	_, err := repo.ListByDocumentID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(int64(2026083001)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS artifact_records`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
