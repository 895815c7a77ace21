package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasad0706/docintel/internal/core/domain"
	"github.com/prasad0706/docintel/internal/core/ports"
)

const maxIDAttempts = 3

type RegisterDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewRegisterDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *RegisterDocumentUseCase {
	return &RegisterDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// RegisterURL creates a queued document pointing at a remote file. The
// bytes are fetched later by the worker, never on the request path.
func (uc *RegisterDocumentUseCase) RegisterURL(
	ctx context.Context,
	fileURL, fileName, mimeType string,
	fileSize int64,
) (*domain.Document, error) {
	parsed, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("fileUrl must be an absolute http(s) url"))
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		SourceURL: parsed.String(),
		FileName:  fileName,
		MimeType:  mimeType,
		FileSize:  fileSize,
		Status:    domain.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.createWithFreshID(ctx, doc); err != nil {
		return nil, err
	}
	if err := uc.queue.PublishDocumentQueued(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish queued document: %w", err)
	}
	return doc, nil
}

// Upload persists the uploaded bytes to object storage, creates a queued
// document and hands it to the queue.
func (uc *RegisterDocumentUseCase) Upload(
	ctx context.Context,
	fileName, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	if !domain.IsSupportedMimeType(mimeType) {
		return nil, domain.WrapError(domain.ErrUnsupportedMedia, "upload document", fmt.Errorf("mime type %q", mimeType))
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        newDocumentID(),
		FileName:  fileName,
		MimeType:  mimeType,
		FileSize:  size,
		Status:    domain.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.StoragePath = storageKey(doc.ID, fileName)

	// The record goes in first so the object key always embeds the id
	// that survived any conflict regeneration.
	if err := uc.createWithFreshID(ctx, doc); err != nil {
		return nil, err
	}
	if err := uc.storage.Save(ctx, doc.StoragePath, body); err != nil {
		if delErr := uc.repo.Delete(ctx, doc.ID); delErr != nil {
			slog.Warn("orphaned_document_cleanup_failed", "document_id", doc.ID, "error", delErr)
		}
		return nil, fmt.Errorf("save to object storage: %w", err)
	}
	if err := uc.queue.PublishDocumentQueued(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish queued document: %w", err)
	}
	return doc, nil
}

// createWithFreshID inserts the document, regenerating the id on a unique
// violation. UUID collisions are not expected; the loop is a guard, not a
// retry policy.
func (uc *RegisterDocumentUseCase) createWithFreshID(ctx context.Context, doc *domain.Document) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if doc.ID == "" {
			doc.ID = newDocumentID()
			if doc.StoragePath != "" {
				doc.StoragePath = storageKey(doc.ID, doc.FileName)
			}
		}
		err = uc.repo.Create(ctx, doc)
		if err == nil {
			return nil
		}
		if !domain.IsKind(err, domain.ErrConflict) {
			return fmt.Errorf("create document record: %w", err)
		}
		doc.ID = ""
	}
	return fmt.Errorf("create document record: %w", err)
}

func newDocumentID() string {
	return "doc_" + uuid.NewString()
}

func storageKey(documentID, fileName string) string {
	return fmt.Sprintf("%s_%s", documentID, sanitizeFilename(fileName))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
