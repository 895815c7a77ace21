package httpadapter

import (
	"net/http"

	"github.com/prasad0706/docintel/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedMedia):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotReady):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrDataNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrKeyNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage keeps storage and provider internals out of 5xx
// bodies; client errors pass through so callers can see what to fix.
func publicErrorMessage(status int, err error) string {
	if status == http.StatusServiceUnavailable {
		return "service temporarily unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
