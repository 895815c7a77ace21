package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prasad0706/docintel/internal/core/domain"
	"github.com/prasad0706/docintel/internal/core/ports"
)

type RetrieveDataUseCase struct {
	keys    *APIKeyUseCase
	results ports.ExtractionRepository
	usage   ports.UsageRepository

	usageWriteFailed func()
}

func NewRetrieveDataUseCase(
	keys *APIKeyUseCase,
	results ports.ExtractionRepository,
	usage ports.UsageRepository,
) *RetrieveDataUseCase {
	return &RetrieveDataUseCase{
		keys:    keys,
		results: results,
		usage:   usage,
	}
}

// Retrieve authenticates the presented secret and returns the extraction
// result bound to it, verbatim. Every attempt produces exactly one usage
// record, including the missing-key and invalid-key cases.
func (uc *RetrieveDataUseCase) Retrieve(ctx context.Context, secret, endpoint string) (string, json.RawMessage, error) {
	start := time.Now()

	documentID, err := uc.keys.VerifySecret(ctx, secret)
	if err != nil {
		uc.recordUsage(ctx, "", endpoint, false, start)
		return "", nil, err
	}

	result, err := uc.results.GetByDocumentID(ctx, documentID)
	if err != nil {
		uc.recordUsage(ctx, documentID, endpoint, false, start)
		return "", nil, fmt.Errorf("fetch extraction result: %w", err)
	}

	uc.recordUsage(ctx, documentID, endpoint, true, start)
	return documentID, result.Data, nil
}

// RetrieveScoped additionally requires the URL document id to match the
// id the key is bound to.
func (uc *RetrieveDataUseCase) RetrieveScoped(ctx context.Context, secret, documentID, endpoint string) (json.RawMessage, error) {
	start := time.Now()

	boundID, err := uc.keys.VerifySecret(ctx, secret)
	if err != nil {
		uc.recordUsage(ctx, "", endpoint, false, start)
		return nil, err
	}
	if boundID != documentID {
		uc.recordUsage(ctx, boundID, endpoint, false, start)
		return nil, domain.WrapError(domain.ErrForbidden, "retrieve scoped data", fmt.Errorf("key is not bound to document %s", documentID))
	}

	result, err := uc.results.GetByDocumentID(ctx, boundID)
	if err != nil {
		uc.recordUsage(ctx, boundID, endpoint, false, start)
		return nil, fmt.Errorf("fetch extraction result: %w", err)
	}

	uc.recordUsage(ctx, boundID, endpoint, true, start)
	return result.Data, nil
}

// recordUsage is fire-and-forget: a usage write failure must never affect
// the request being instrumented.
func (uc *RetrieveDataUseCase) recordUsage(ctx context.Context, documentID, endpoint string, success bool, start time.Time) {
	rec := &domain.UsageRecord{
		DocumentID: documentID,
		Endpoint:   endpoint,
		Success:    success,
		LatencyMS:  time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.usage.Record(ctx, rec); err != nil {
		slog.Warn("usage_record_write_failed", "endpoint", endpoint, "error", err)
		if uc.usageWriteFailed != nil {
			uc.usageWriteFailed()
		}
	}
}

// OnUsageWriteFailure registers a callback fired whenever a usage record
// cannot be persisted. The caller feeds it into its failure counter; the
// use case itself stays free of the metrics registry.
func (uc *RetrieveDataUseCase) OnUsageWriteFailure(fn func()) {
	uc.usageWriteFailed = fn
}
