package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/prasad0706/docintel/internal/core/domain"
)

// DocumentRegistrar is the inbound contract for registering documents,
// either by remote URL or by direct upload.
type DocumentRegistrar interface {
	RegisterURL(ctx context.Context, fileURL, fileName, mimeType string, fileSize int64) (*domain.Document, error)
	Upload(ctx context.Context, fileName, mimeType string, size int64, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetWithData(ctx context.Context, id string) (*domain.Document, *domain.ExtractionResult, error)
	List(ctx context.Context) ([]domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous extraction.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// APIKeyService issues and revokes document-scoped keys. Issue returns the
// plaintext secret exactly once; it is never retrievable afterwards.
type APIKeyService interface {
	Issue(ctx context.Context, documentID string) (keyID, secret string, err error)
	Revoke(ctx context.Context, documentID, keyID string) error
}

// DataRetriever authenticates a presented secret and returns the extracted
// data bound to it. Every attempt, including failures, is usage-recorded.
type DataRetriever interface {
	Retrieve(ctx context.Context, secret, endpoint string) (documentID string, data json.RawMessage, err error)
	RetrieveScoped(ctx context.Context, secret, documentID, endpoint string) (json.RawMessage, error)
}

// DocumentPurger removes a document together with its extraction result and
// api keys. Usage records are append-only and stay behind.
type DocumentPurger interface {
	Purge(ctx context.Context, documentID string) error
}
