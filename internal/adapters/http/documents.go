package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prasad0706/docintel/internal/core/domain"
)

type registerRequest struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

func (rt *Router) registerDocument(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("invalid json body")))
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("fileUrl is required")))
		return
	}

	doc, err := rt.registrar.RegisterURL(r.Context(), req.FileURL, req.FileName, req.FileType, req.FileSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	maxBytes := rt.cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, fileHeader, err := r.FormFile("document")
	if err != nil {
		var tooLarge *http.MaxBytesError
		// The multipart reader can surface the cap as wrapped text
		// instead of the typed error.
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("file exceeds upload size limit")))
			return
		}
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("multipart field 'document' is required")))
		return
	}
	defer file.Close()

	doc, err := rt.registrar.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.reader.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, result, err := rt.reader.GetWithData(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := map[string]any{"document": doc}
	if result != nil {
		response["data"] = result.Data
	}
	writeJSON(w, http.StatusOK, response)
}

func (rt *Router) getDocumentStatus(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.reader.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := map[string]any{
		"documentId": doc.ID,
		"status":     doc.Status,
	}
	if doc.Error != "" {
		response["error"] = doc.Error
	}
	writeJSON(w, http.StatusOK, response)
}
