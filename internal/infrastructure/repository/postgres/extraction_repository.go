package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prasad0706/docintel/internal/core/domain"
)

// ExtractionRepository stores extraction output in the document_data table,
// exactly one row per document.
type ExtractionRepository struct {
	db *sql.DB
}

func NewExtractionRepository(db *sql.DB) *ExtractionRepository {
	return &ExtractionRepository{db: db}
}

func (r *ExtractionRepository) Save(ctx context.Context, result *domain.ExtractionResult) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_data (document_id, data, created_at)
VALUES ($1,$2,$3)
`, result.DocumentID, []byte(result.Data), result.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrConflict, "insert extraction result", err)
		}
		return fmt.Errorf("insert extraction result: %w", err)
	}
	return nil
}

func (r *ExtractionRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.ExtractionResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT document_id, data, created_at
FROM document_data
WHERE document_id = $1
`, documentID)

	var result domain.ExtractionResult
	var raw []byte
	if err := row.Scan(&result.DocumentID, &raw, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDataNotFound, "get extraction result", fmt.Errorf("document %s", documentID))
		}
		return nil, fmt.Errorf("scan extraction result: %w", err)
	}
	result.Data = raw
	return &result, nil
}

func (r *ExtractionRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_data WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete extraction result: %w", err)
	}
	return nil
}
