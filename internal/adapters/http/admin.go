package httpadapter

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/prasad0706/docintel/internal/core/domain"
)

const adminTokenHeader = "x-admin-token"

func (rt *Router) purgeDocument(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.AdminToken == "" {
		writeError(w, r, domain.WrapError(domain.ErrForbidden, "purge document", errors.New("admin endpoint is disabled")))
		return
	}
	presented := r.Header.Get(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(rt.cfg.AdminToken)) != 1 {
		writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "purge document", errors.New("invalid admin token")))
		return
	}

	if err := rt.purger.Purge(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
