package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/prasad0706/docintel/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	Delete(ctx context.Context, id string) error
}

// ExtractionRepository stores the structured output of successful
// extractions, one row per document.
type ExtractionRepository interface {
	Save(ctx context.Context, result *domain.ExtractionResult) error
	GetByDocumentID(ctx context.Context, documentID string) (*domain.ExtractionResult, error)
	DeleteByDocumentID(ctx context.Context, documentID string) error
}

// APIKeyRepository persists key hashes. ListActive feeds verification and
// must exclude revoked keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	ListActive(ctx context.Context) ([]domain.APIKey, error)
	Revoke(ctx context.Context, keyID string) error
	DeleteByDocumentID(ctx context.Context, documentID string) error
}

// UsageRepository appends retrieval telemetry. Failures here must never
// fail the request being instrumented.
type UsageRepository interface {
	Record(ctx context.Context, rec *domain.UsageRecord) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue hands queued documents to the extraction worker.
type MessageQueue interface {
	PublishDocumentQueued(ctx context.Context, documentID string) error
	SubscribeDocumentQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// SourceFetcher downloads document bytes from a remote URL.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, mimeType string, err error)
}

// DocumentAnalyzer performs the AI extraction call on raw document content
// and returns the parsed structured result.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, mimeType string, content []byte) (json.RawMessage, error)
	AnalyzeText(ctx context.Context, text string) (json.RawMessage, error)
}

// TextExtractor extracts plain text from document bytes for the text-prompt
// analysis mode.
type TextExtractor interface {
	Extract(ctx context.Context, mimeType string, content []byte) (string, error)
}

// SecretHasher is the one-way hashing scheme for api key secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) bool
}
