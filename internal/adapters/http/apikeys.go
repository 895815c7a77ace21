package httpadapter

import "net/http"

func (rt *Router) issueAPIKey(w http.ResponseWriter, r *http.Request) {
	keyID, secret, err := rt.keys.Issue(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"keyId":   keyID,
		"apiKey":  secret,
		"message": "Store this key securely. It will not be shown again.",
	})
}

func (rt *Router) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	err := rt.keys.Revoke(r.Context(), r.PathValue("id"), r.PathValue("keyID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
