package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prasad0706/docintel/internal/config"
	"github.com/prasad0706/docintel/internal/core/ports"
	"github.com/prasad0706/docintel/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg config.Config

	registrar ports.DocumentRegistrar
	reader    ports.DocumentReader
	keys      ports.APIKeyService
	retriever ports.DataRetriever
	purger    ports.DocumentPurger

	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	registrar ports.DocumentRegistrar,
	reader ports.DocumentReader,
	keys ports.APIKeyService,
	retriever ports.DataRetriever,
	purger ports.DocumentPurger,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		registrar: registrar,
		reader:    reader,
		keys:      keys,
		retriever: retriever,
		purger:    purger,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)

	mux.HandleFunc("POST /documents/register", rt.registerDocument)
	mux.HandleFunc("POST /documents/upload", rt.uploadDocument)
	mux.HandleFunc("GET /documents", rt.listDocuments)
	mux.HandleFunc("GET /documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /documents/{id}/status", rt.getDocumentStatus)
	mux.HandleFunc("POST /documents/{id}/api-keys", rt.issueAPIKey)
	mux.HandleFunc("DELETE /documents/{id}/api-keys/{keyID}", rt.revokeAPIKey)

	mux.HandleFunc("GET /v1/data", rt.getData)
	mux.HandleFunc("GET /extract/{documentID}", rt.getExtract)

	mux.HandleFunc("DELETE /admin/documents/{id}", rt.purgeDocument)

	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	handler := http.Handler(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.cfg.APIMaxInFlight > 0 {
		wait := time.Duration(rt.cfg.APIBackpressureMS) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, wait)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_error",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": publicErrorMessage(status, err)})
}
