package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prasad0706/docintel/internal/core/domain"
)

// UsageRepository appends retrieval telemetry to api_usage. Rows are never
// updated or deleted.
type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Record(ctx context.Context, rec *domain.UsageRecord) error {
	documentID := sql.NullString{String: rec.DocumentID, Valid: rec.DocumentID != ""}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO api_usage (document_id, endpoint, success, latency_ms, created_at)
VALUES ($1,$2,$3,$4,$5)
`, documentID, rec.Endpoint, rec.Success, rec.LatencyMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}
