package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prasad0706/docintel/internal/core/domain"
	"github.com/prasad0706/docintel/internal/core/ports"
)

// failedWriteTimeout bounds the status write on the failure path, which
// runs on a context detached from the per-document deadline.
const failedWriteTimeout = 10 * time.Second

// AnalysisMode selects how document content is handed to the AI provider.
type AnalysisMode string

const (
	// ModeInline submits the raw bytes as an inline content blob.
	ModeInline AnalysisMode = "inline"
	// ModeText extracts plain text first and sends a text prompt. Only
	// meaningful for PDFs; other types fall back to inline.
	ModeText AnalysisMode = "text"
)

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	results    ports.ExtractionRepository
	storage    ports.ObjectStorage
	fetcher    ports.SourceFetcher
	analyzer   ports.DocumentAnalyzer
	textExtr   ports.TextExtractor
	mode       AnalysisMode
	maxBytes   int64
	perDocTime time.Duration
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	results ports.ExtractionRepository,
	storage ports.ObjectStorage,
	fetcher ports.SourceFetcher,
	analyzer ports.DocumentAnalyzer,
	textExtr ports.TextExtractor,
	mode AnalysisMode,
	maxBytes int64,
	perDocTimeout time.Duration,
) *ProcessDocumentUseCase {
	if mode != ModeText {
		mode = ModeInline
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ProcessDocumentUseCase{
		repo:       repo,
		results:    results,
		storage:    storage,
		fetcher:    fetcher,
		analyzer:   analyzer,
		textExtr:   textExtr,
		mode:       mode,
		maxBytes:   maxBytes,
		perDocTime: perDocTimeout,
	}
}

// ProcessByID runs the extraction state machine for one document:
// queued -> processing -> ready|failed. All failure paths leave the
// document in failed with a human-readable error and bubble the error up
// to the queue layer for its retry bookkeeping.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if uc.perDocTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.perDocTime)
		defer cancel()
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	data, err := uc.extract(ctx, doc)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	result := &domain.ExtractionResult{
		DocumentID: documentID,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.results.Save(ctx, result); err != nil {
		saveErr := fmt.Errorf("save extraction result: %w", err)
		if failErr := uc.markFailed(ctx, documentID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, doc *domain.Document) (json.RawMessage, error) {
	content, mimeType, err := uc.resolveSource(ctx, doc)
	if err != nil {
		return nil, err
	}

	if !domain.IsSupportedMimeType(mimeType) {
		return nil, domain.WrapError(domain.ErrUnsupportedMedia, "analyze document", fmt.Errorf("mime type %q", mimeType))
	}

	if uc.mode == ModeText && mimeType == "application/pdf" && uc.textExtr != nil {
		text, err := uc.textExtr.Extract(ctx, mimeType, content)
		if err != nil {
			return nil, fmt.Errorf("extract document text: %w", err)
		}
		data, err := uc.analyzer.AnalyzeText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("analyze document text: %w", err)
		}
		return data, nil
	}

	data, err := uc.analyzer.Analyze(ctx, mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}
	return data, nil
}

// resolveSource loads document bytes from object storage for uploads, or
// downloads them for URL registrations. Bytes are always submitted inline;
// the AI provider never fetches URLs itself.
func (uc *ProcessDocumentUseCase) resolveSource(ctx context.Context, doc *domain.Document) ([]byte, string, error) {
	if doc.StoragePath != "" {
		reader, err := uc.storage.Open(ctx, doc.StoragePath)
		if err != nil {
			return nil, "", fmt.Errorf("open stored document: %w", err)
		}
		defer reader.Close()

		content, err := io.ReadAll(io.LimitReader(reader, uc.maxBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("read stored document: %w", err)
		}
		if int64(len(content)) > uc.maxBytes {
			return nil, "", domain.WrapError(domain.ErrInvalidInput, "read stored document", errors.New("document exceeds size limit"))
		}
		return content, doc.MimeType, nil
	}

	if doc.SourceURL == "" {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "resolve document source", errors.New("document has neither storage path nor source url"))
	}

	content, fetchedType, err := uc.fetcher.Fetch(ctx, doc.SourceURL)
	if err != nil {
		return nil, "", fmt.Errorf("download document: %w", err)
	}

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = fetchedType
	}
	return content, mimeType, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	// The failure is frequently the context itself expiring. Detach the
	// status write from it, or the document stays in processing forever.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failedWriteTimeout)
	defer cancel()
	return uc.markStatus(writeCtx, documentID, domain.StatusFailed, processErr.Error())
}
