package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prasad0706/docintel/internal/config"
	"github.com/prasad0706/docintel/internal/core/domain"
)

type registrarFake struct {
	registerErr error
	uploadErr   error
	lastUpload  struct {
		fileName string
		mimeType string
		size     int64
		body     []byte
	}
}

func (f *registrarFake) RegisterURL(_ context.Context, fileURL, fileName, mimeType string, fileSize int64) (*domain.Document, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.Document{
		ID:        "doc_test",
		SourceURL: fileURL,
		FileName:  fileName,
		MimeType:  mimeType,
		FileSize:  fileSize,
		Status:    domain.StatusQueued,
	}, nil
}

func (f *registrarFake) Upload(_ context.Context, fileName, mimeType string, size int64, body io.Reader) (*domain.Document, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.lastUpload.fileName = fileName
	f.lastUpload.mimeType = mimeType
	f.lastUpload.size = size
	f.lastUpload.body = data
	return &domain.Document{
		ID:       "doc_test",
		FileName: fileName,
		MimeType: mimeType,
		FileSize: size,
		Status:   domain.StatusQueued,
	}, nil
}

type readerFake struct {
	docs map[string]*domain.Document
	data map[string]json.RawMessage
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
	}
	return doc, nil
}

func (f *readerFake) GetWithData(ctx context.Context, id string) (*domain.Document, *domain.ExtractionResult, error) {
	doc, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if data, ok := f.data[id]; ok {
		return doc, &domain.ExtractionResult{DocumentID: id, Data: data}, nil
	}
	return doc, nil, nil
}

func (f *readerFake) List(_ context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	for _, doc := range f.docs {
		docs = append(docs, *doc)
	}
	return docs, nil
}

type keyServiceFake struct {
	issueErr  error
	revokeErr error
	revoked   []string
}

func (f *keyServiceFake) Issue(_ context.Context, documentID string) (string, string, error) {
	if f.issueErr != nil {
		return "", "", f.issueErr
	}
	return "key-1", "sk_live_fake", nil
}

func (f *keyServiceFake) Revoke(_ context.Context, documentID, keyID string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, keyID)
	return nil
}

type retrieverFake struct {
	boundID string
	data    json.RawMessage
	err     error
}

func (f *retrieverFake) Retrieve(_ context.Context, secret, endpoint string) (string, json.RawMessage, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	if secret == "" {
		return "", nil, domain.WrapError(domain.ErrUnauthorized, "verify api key", errors.New("no key provided"))
	}
	if secret != "sk_live_fake" {
		return "", nil, domain.WrapError(domain.ErrForbidden, "verify api key", errors.New("no matching key"))
	}
	return f.boundID, f.data, nil
}

func (f *retrieverFake) RetrieveScoped(ctx context.Context, secret, documentID, endpoint string) (json.RawMessage, error) {
	boundID, data, err := f.Retrieve(ctx, secret, endpoint)
	if err != nil {
		return nil, err
	}
	if boundID != documentID {
		return nil, domain.WrapError(domain.ErrForbidden, "retrieve scoped data", errors.New("key is not bound to document"))
	}
	return data, nil
}

type purgerFake struct {
	purged []string
	err    error
}

func (f *purgerFake) Purge(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.purged = append(f.purged, documentID)
	return nil
}

type testDeps struct {
	registrar *registrarFake
	reader    *readerFake
	keys      *keyServiceFake
	retriever *retrieverFake
	purger    *purgerFake
}

func newTestDeps() *testDeps {
	return &testDeps{
		registrar: &registrarFake{},
		reader: &readerFake{
			docs: map[string]*domain.Document{},
			data: map[string]json.RawMessage{},
		},
		keys:      &keyServiceFake{},
		retriever: &retrieverFake{},
		purger:    &purgerFake{},
	}
}

func newTestHandler(cfg config.Config, deps *testDeps) http.Handler {
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.APIBackpressureMS == 0 {
		cfg.APIBackpressureMS = 20
	}
	router := NewRouter(cfg, deps.registrar, deps.reader, deps.keys, deps.retriever, deps.purger, nil)
	return router.Handler()
}
