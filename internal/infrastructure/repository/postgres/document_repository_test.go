package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prasad0706/docintel/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestDocumentGetByIDReturnsDomainNotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery("SELECT id, source_url, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentGetByIDScansRow(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "source_url", "storage_path", "file_name", "mime_type", "file_size",
		"status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "https://files.example/a.pdf", nil, "a.pdf", "application/pdf", int64(1024), "queued", "", now, now)

	mock.ExpectQuery("SELECT id, source_url, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusQueued {
		t.Fatalf("expected queued, got %s", doc.Status)
	}
	if doc.SourceURL != "https://files.example/a.pdf" || doc.StoragePath != "" {
		t.Fatalf("unexpected source fields %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentCreateMapsUniqueViolationToConflict(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("INSERT INTO documents").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.Document{ID: "doc-1", Status: domain.StatusQueued})
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentUpdateStatusNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentListOrdersNewestFirst(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "source_url", "storage_path", "file_name", "mime_type", "file_size",
		"status", "error_message", "created_at", "updated_at",
	}).
		AddRow("doc-2", nil, "doc-2_b.pdf", "b.pdf", "application/pdf", int64(10), "ready", "", now, now).
		AddRow("doc-1", nil, "doc-1_a.pdf", "a.pdf", "application/pdf", int64(10), "failed", "boom", now.Add(-time.Hour), now)

	mock.ExpectQuery("ORDER BY created_at DESC").WillReturnRows(rows)

	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" {
		t.Fatalf("unexpected listing %+v", docs)
	}
	if docs[1].Error != "boom" {
		t.Fatalf("expected failed document to carry its error, got %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
