package usecase

import (
	"context"
	"fmt"

	"github.com/prasad0706/docintel/internal/core/domain"
	"github.com/prasad0706/docintel/internal/core/ports"
)

// DocumentReadModel serves the document listing and detail endpoints.
type DocumentReadModel struct {
	docs    ports.DocumentRepository
	results ports.ExtractionRepository
}

func NewDocumentReadModel(docs ports.DocumentRepository, results ports.ExtractionRepository) *DocumentReadModel {
	return &DocumentReadModel{docs: docs, results: results}
}

func (rm *DocumentReadModel) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return rm.docs.GetByID(ctx, id)
}

// GetWithData joins the document with its extraction result. A missing
// result is not an error here: the document may simply not be ready yet.
func (rm *DocumentReadModel) GetWithData(ctx context.Context, id string) (*domain.Document, *domain.ExtractionResult, error) {
	doc, err := rm.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status != domain.StatusReady {
		return doc, nil, nil
	}

	result, err := rm.results.GetByDocumentID(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.ErrDataNotFound) {
			return doc, nil, nil
		}
		return nil, nil, fmt.Errorf("fetch extraction result: %w", err)
	}
	return doc, result, nil
}

func (rm *DocumentReadModel) List(ctx context.Context) ([]domain.Document, error) {
	return rm.docs.List(ctx)
}
