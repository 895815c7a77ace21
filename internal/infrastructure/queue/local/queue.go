// Package local is the in-process fallback for the document queue, used
// when the durable backend is unreachable at startup. Publishing hands the
// document id to the registered handler on a goroutine; there is no retry
// and no persistence, matching the fallback contract: a crash loses only
// in-flight work, and the document stays visible in its last status.
package local

import (
	"context"
	"log/slog"
	"sync"
)

type Queue struct {
	mu      sync.Mutex
	handler func(context.Context, string) error

	// sem caps in-process extraction at one document at a time, same as
	// the durable backend's worker concurrency.
	sem chan struct{}

	baseCtx context.Context
}

func New() *Queue {
	return &Queue{
		sem:     make(chan struct{}, 1),
		baseCtx: context.Background(),
	}
}

// PublishDocumentQueued schedules the handler without blocking the caller.
// With no handler registered (api process running without the in-process
// worker) the publish is dropped with a warning rather than failing the
// upload: the document record stays queued and can be re-registered.
func (q *Queue) PublishDocumentQueued(_ context.Context, documentID string) error {
	q.mu.Lock()
	handler := q.handler
	baseCtx := q.baseCtx
	q.mu.Unlock()

	if handler == nil {
		slog.Warn("local_queue_no_consumer", "document_id", documentID)
		return nil
	}

	go func() {
		q.sem <- struct{}{}
		defer func() { <-q.sem }()

		// Detached from the request context on purpose: processing must
		// outlive the HTTP request that enqueued it.
		if err := handler(baseCtx, documentID); err != nil {
			slog.Error("document_process_failed", "document_id", documentID, "error", err)
		}
	}()
	return nil
}

// Register installs the handler synchronously: once it returns, every
// subsequent publish is delivered. The api process calls this before it
// starts accepting traffic so no upload lands on a handler-less queue.
func (q *Queue) Register(ctx context.Context, handler func(context.Context, string) error) {
	q.mu.Lock()
	q.handler = handler
	q.baseCtx = ctx
	q.mu.Unlock()
}

// SubscribeDocumentQueued registers the handler and blocks until ctx is
// done, mirroring the durable backend's subscribe contract.
func (q *Queue) SubscribeDocumentQueued(ctx context.Context, handler func(context.Context, string) error) error {
	q.Register(ctx, handler)

	<-ctx.Done()

	q.mu.Lock()
	q.handler = nil
	q.mu.Unlock()
	return nil
}
