package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasad0706/docintel/internal/core/ports"
)

// PurgeDocumentUseCase is the administrative cascade delete: the document
// row, its extraction result, its api keys and its stored object all go.
// Usage records are append-only and are deliberately left behind.
type PurgeDocumentUseCase struct {
	docs    ports.DocumentRepository
	results ports.ExtractionRepository
	keys    ports.APIKeyRepository
	storage ports.ObjectStorage
}

func NewPurgeDocumentUseCase(
	docs ports.DocumentRepository,
	results ports.ExtractionRepository,
	keys ports.APIKeyRepository,
	storage ports.ObjectStorage,
) *PurgeDocumentUseCase {
	return &PurgeDocumentUseCase{
		docs:    docs,
		results: results,
		keys:    keys,
		storage: storage,
	}
}

func (uc *PurgeDocumentUseCase) Purge(ctx context.Context, documentID string) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}

	if err := uc.keys.DeleteByDocumentID(ctx, documentID); err != nil {
		return fmt.Errorf("delete api keys: %w", err)
	}
	if err := uc.results.DeleteByDocumentID(ctx, documentID); err != nil {
		return fmt.Errorf("delete extraction result: %w", err)
	}
	if err := uc.docs.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if doc.StoragePath != "" {
		if err := uc.storage.Delete(ctx, doc.StoragePath); err != nil {
			slog.Warn("purge_stored_object_failed", "document_id", documentID, "error", err)
		}
	}
	return nil
}
