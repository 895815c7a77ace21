package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prasad0706/docintel/internal/config"
	"github.com/prasad0706/docintel/internal/core/domain"
)

func TestRegisterDocumentReturns202(t *testing.T) {
	deps := newTestDeps()
	handler := newTestHandler(config.Config{}, deps)

	body := `{"fileUrl":"https://example.com/report.pdf","fileName":"report.pdf","fileType":"application/pdf","fileSize":1024}`
	req := httptest.NewRequest(http.MethodPost, "/documents/register", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}

	var doc domain.Document
	if err := json.Unmarshal(res.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.ID == "" || doc.Status != domain.StatusQueued {
		t.Fatalf("expected queued document with id, got %+v", doc)
	}
}

func TestRegisterDocumentRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"fileUrl":`},
		{name: "missing fileUrl", body: `{"fileName":"a.pdf"}`},
		{name: "blank fileUrl", body: `{"fileUrl":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(config.Config{}, newTestDeps())
			req := httptest.NewRequest(http.MethodPost, "/documents/register", strings.NewReader(tt.body))
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)
			if res.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", res.Code)
			}
		})
	}
}

func TestRegisterDocumentMapsMalformedURLTo400(t *testing.T) {
	deps := newTestDeps()
	deps.registrar.registerErr = domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("fileUrl must be an absolute http(s) url"))
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodPost, "/documents/register", strings.NewReader(`{"fileUrl":"not a url"}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func multipartBody(t *testing.T, field, fileName, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName)}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentReturns202(t *testing.T) {
	deps := newTestDeps()
	handler := newTestHandler(config.Config{}, deps)

	body, contentType := multipartBody(t, "document", "scan.pdf", "application/pdf", "%PDF-1.4 content")
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if deps.registrar.lastUpload.fileName != "scan.pdf" {
		t.Fatalf("file name = %q", deps.registrar.lastUpload.fileName)
	}
	if deps.registrar.lastUpload.mimeType != "application/pdf" {
		t.Fatalf("mime type = %q", deps.registrar.lastUpload.mimeType)
	}
	if string(deps.registrar.lastUpload.body) != "%PDF-1.4 content" {
		t.Fatalf("uploaded bytes did not reach the registrar")
	}
}

func TestUploadDocumentRequiresDocumentField(t *testing.T) {
	handler := newTestHandler(config.Config{}, newTestDeps())

	body, contentType := multipartBody(t, "file", "scan.pdf", "application/pdf", "data")
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong field name, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "document") {
		t.Fatalf("error should name the expected field: %s", res.Body.String())
	}
}

func TestUploadDocumentRejectsUnsupportedMime(t *testing.T) {
	deps := newTestDeps()
	deps.registrar.uploadErr = domain.WrapError(domain.ErrUnsupportedMedia, "upload document", errors.New(`mime type "text/plain"`))
	handler := newTestHandler(config.Config{}, deps)

	body, contentType := multipartBody(t, "document", "notes.txt", "text/plain", "hello")
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported mime, got %d", res.Code)
	}
}

func TestUploadDocumentEnforcesSizeLimit(t *testing.T) {
	handler := newTestHandler(config.Config{MaxUploadBytes: 512}, newTestDeps())

	body, contentType := multipartBody(t, "document", "big.pdf", "application/pdf", strings.Repeat("a", 4096))
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized upload, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "size limit") {
		t.Fatalf("error should mention the size limit: %s", res.Body.String())
	}
}

func TestGetDocumentStatusIncludesErrorWhenFailed(t *testing.T) {
	deps := newTestDeps()
	deps.reader.docs["doc_failed"] = &domain.Document{
		ID:     "doc_failed",
		Status: domain.StatusFailed,
		Error:  "AI provider rejected the document",
	}
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/documents/doc_failed/status", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != string(domain.StatusFailed) {
		t.Fatalf("status = %v", payload["status"])
	}
	if payload["error"] != "AI provider rejected the document" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestGetDocumentStatusOmitsErrorWhenHealthy(t *testing.T) {
	deps := newTestDeps()
	deps.reader.docs["doc_ok"] = &domain.Document{ID: "doc_ok", Status: domain.StatusReady}
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/documents/doc_ok/status", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	var payload map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, present := payload["error"]; present {
		t.Fatalf("healthy status must not carry an error field: %v", payload)
	}
}

func TestGetDocumentReturns404ForUnknownID(t *testing.T) {
	handler := newTestHandler(config.Config{}, newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/documents/doc_missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetDocumentIncludesDataWhenReady(t *testing.T) {
	deps := newTestDeps()
	deps.reader.docs["doc_ready"] = &domain.Document{ID: "doc_ready", Status: domain.StatusReady}
	deps.reader.data["doc_ready"] = json.RawMessage(`{"summary":"done"}`)
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/documents/doc_ready", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data["summary"] != "done" {
		t.Fatalf("data = %v", payload.Data)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(config.Config{}, newTestDeps())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}
