package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prasad0706/docintel/internal/config"
	"github.com/prasad0706/docintel/internal/core/ports"
	"github.com/prasad0706/docintel/internal/core/usecase"
	"github.com/prasad0706/docintel/internal/infrastructure/ai/gemini"
	"github.com/prasad0706/docintel/internal/infrastructure/extractor/pdftext"
	"github.com/prasad0706/docintel/internal/infrastructure/fetch"
	"github.com/prasad0706/docintel/internal/infrastructure/queue/local"
	"github.com/prasad0706/docintel/internal/infrastructure/queue/nats"
	"github.com/prasad0706/docintel/internal/infrastructure/repository/postgres"
	"github.com/prasad0706/docintel/internal/infrastructure/resilience"
	"github.com/prasad0706/docintel/internal/infrastructure/secrets"
	"github.com/prasad0706/docintel/internal/infrastructure/storage/localfs"
)

const (
	QueueBackendNATS  = "nats"
	QueueBackendLocal = "local"
)

type App struct {
	Config       config.Config
	QueueBackend string

	Queue ports.MessageQueue

	RegistrarUC *usecase.RegisterDocumentUseCase
	ReaderUC    *usecase.DocumentReadModel
	ProcessUC   *usecase.ProcessDocumentUseCase
	KeysUC      *usecase.APIKeyUseCase
	RetrieveUC  *usecase.RetrieveDataUseCase
	PurgeUC     *usecase.PurgeDocumentUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	docs := postgres.NewDocumentRepository(db)
	results := postgres.NewExtractionRepository(db)
	keys := postgres.NewAPIKeyRepository(db)
	usage := postgres.NewUsageRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		BreakerEnabled:   cfg.BreakerEnabled,
	})

	queue, backend, closeQueue := buildQueue(cfg, executor)

	analyzer := gemini.NewWithOptions(cfg.GeminiURL, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.Options{
		Timeout:            time.Duration(cfg.AITimeoutSecs) * time.Second,
		ResilienceExecutor: executor,
	})
	fetcher := fetch.NewWithOptions(fetch.Options{MaxBytes: cfg.MaxUploadBytes})
	textExtractor := pdftext.NewExtractor()

	mode := usecase.ModeInline
	if cfg.AIAnalysisMode == "text" {
		mode = usecase.ModeText
	}

	hasher := buildHasher(cfg)

	registrarUC := usecase.NewRegisterDocumentUseCase(docs, storage, queue)
	readerUC := usecase.NewDocumentReadModel(docs, results)
	processUC := usecase.NewProcessDocumentUseCase(
		docs,
		results,
		storage,
		fetcher,
		analyzer,
		textExtractor,
		mode,
		cfg.MaxUploadBytes,
		time.Duration(cfg.ProcessTimeSecs)*time.Second,
	)
	keysUC := usecase.NewAPIKeyUseCase(docs, keys, hasher)
	retrieveUC := usecase.NewRetrieveDataUseCase(keysUC, results, usage)
	purgeUC := usecase.NewPurgeDocumentUseCase(docs, results, keys, storage)

	// With the in-process queue there is no separate worker binary, so the
	// consumer is wired here, before any endpoint can publish. Registering
	// it later would open a window where uploads are silently dropped.
	if backend == QueueBackendLocal {
		if localQueue, ok := queue.(*local.Queue); ok {
			localQueue.Register(ctx, func(handlerCtx context.Context, documentID string) error {
				return processUC.ProcessByID(handlerCtx, documentID)
			})
		}
	}

	return &App{
		Config:       cfg,
		QueueBackend: backend,
		Queue:        queue,

		RegistrarUC: registrarUC,
		ReaderUC:    readerUC,
		ProcessUC:   processUC,
		KeysUC:      keysUC,
		RetrieveUC:  retrieveUC,
		PurgeUC:     purgeUC,

		closeFn: func() {
			closeQueue()
			_ = db.Close()
		},
	}, nil
}

// buildQueue selects the queue backend once at startup. When NATS is
// configured but unreachable the app degrades to the in-process queue
// instead of refusing to start; the trade-off is single-process delivery
// with no durability.
func buildQueue(cfg config.Config, executor *resilience.Executor) (ports.MessageQueue, string, func()) {
	if cfg.QueueBackend == QueueBackendLocal {
		return local.New(), QueueBackendLocal, func() {}
	}

	retryOnFailedConnect := false
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		RetryOnFailedConnect: &retryOnFailedConnect,
		ResilienceExecutor:   executor,
	})
	if err != nil {
		slog.Warn("nats_unavailable_falling_back_to_local_queue", "url", cfg.NATSURL, "error", err)
		return local.New(), QueueBackendLocal, func() {}
	}
	return queue, QueueBackendNATS, queue.Close
}

func buildHasher(cfg config.Config) ports.SecretHasher {
	if cfg.KeyHashScheme == "sha256" {
		slog.Warn("api_key_hash_scheme_sha256", "hint", "bcrypt is the production scheme")
		return secrets.NewSHA256Hasher()
	}
	return secrets.NewBcryptHasher(cfg.BcryptCost)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
