package httpadapter

import (
	"net/http"
	"time"

	"github.com/prasad0706/docintel/internal/core/domain"
)

const apiKeyHeader = "x-api-key"

func (rt *Router) getData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	secret := r.Header.Get(apiKeyHeader)

	documentID, data, err := rt.retriever.Retrieve(r.Context(), secret, "/v1/data")
	rt.recordRetrieval("/v1/data", err, start)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": documentID,
		"data":       data,
	})
}

func (rt *Router) getExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	secret := r.Header.Get(apiKeyHeader)
	documentID := r.PathValue("documentID")

	data, err := rt.retriever.RetrieveScoped(r.Context(), secret, documentID, "/extract")
	rt.recordRetrieval("/extract", err, start)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": documentID,
		"data":       data,
	})
}

func (rt *Router) recordRetrieval(endpoint string, err error, start time.Time) {
	if rt.metrics == nil {
		return
	}
	outcome := "success"
	keyResult := "match"
	switch {
	case err == nil:
	case domain.IsKind(err, domain.ErrUnauthorized):
		outcome = "unauthorized"
		keyResult = "missing"
	case domain.IsKind(err, domain.ErrForbidden):
		outcome = "forbidden"
		keyResult = "no_match"
	case domain.IsKind(err, domain.ErrDataNotFound):
		outcome = "no_data"
	default:
		outcome = "error"
	}
	rt.metrics.RecordRetrieval(serviceName, endpoint, outcome, time.Since(start))
	rt.metrics.RecordKeyVerification(serviceName, keyResult)
}
