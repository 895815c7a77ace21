package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/prasad0706/docintel/internal/adapters/http"
	"github.com/prasad0706/docintel/internal/bootstrap"
	"github.com/prasad0706/docintel/internal/config"
	"github.com/prasad0706/docintel/internal/observability/logging"
	"github.com/prasad0706/docintel/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// In local queue mode bootstrap has already wired the in-process
	// consumer, so uploads are consumable from the first request on.

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app.RetrieveUC.OnUsageWriteFailure(func() {
		httpMetrics.RecordUsageWriteFailure("api")
	})
	router := httpadapter.NewRouter(
		cfg,
		app.RegistrarUC,
		app.ReaderUC,
		app.KeysUC,
		app.RetrieveUC,
		app.PurgeUC,
		httpMetrics,
	)
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort, "queue_backend", app.QueueBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
