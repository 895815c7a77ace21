package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prasad0706/docintel/internal/core/domain"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO api_keys (id, document_id, key_hash, revoked, created_at)
VALUES ($1,$2,$3,$4,$5)
`, key.ID, key.DocumentID, key.KeyHash, key.Revoked, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

// ListActive returns every non-revoked key. Verification walks the whole
// set; revoked keys never leave this query.
func (r *APIKeyRepository) ListActive(ctx context.Context) ([]domain.APIKey, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, key_hash, revoked, created_at
FROM api_keys
WHERE revoked = FALSE
`)
	if err != nil {
		return nil, fmt.Errorf("list active api keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		var key domain.APIKey
		if err := rows.Scan(&key.ID, &key.DocumentID, &key.KeyHash, &key.Revoked, &key.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key row: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api key rows: %w", err)
	}
	return keys, nil
}

// Revoke is idempotent: revoking an already revoked key is a no-op.
func (r *APIKeyRepository) Revoke(ctx context.Context, keyID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET revoked = TRUE WHERE id = $1`, keyID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke api key rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrKeyNotFound, "revoke api key", fmt.Errorf("key %s", keyID))
	}
	return nil
}

func (r *APIKeyRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete api keys: %w", err)
	}
	return nil
}
