package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prasad0706/docintel/internal/config"
)

func TestGetDataWithoutKeyReturns401(t *testing.T) {
	handler := newTestHandler(config.Config{}, newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/v1/data", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without x-api-key, got %d", res.Code)
	}
}

func TestGetDataWithUnknownKeyReturns403(t *testing.T) {
	handler := newTestHandler(config.Config{}, newTestDeps())

	req := httptest.NewRequest(http.MethodGet, "/v1/data", nil)
	req.Header.Set("x-api-key", "sk_live_wrong")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown key, got %d", res.Code)
	}
}

func TestGetDataReturnsBoundDocumentData(t *testing.T) {
	deps := newTestDeps()
	deps.retriever.boundID = "doc_bound"
	deps.retriever.data = json.RawMessage(`{"summary":"verbatim","key_insights":["a"]}`)
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/v1/data", nil)
	req.Header.Set("x-api-key", "sk_live_fake")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload struct {
		DocumentID string         `json:"documentId"`
		Data       map[string]any `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.DocumentID != "doc_bound" {
		t.Fatalf("documentId = %q", payload.DocumentID)
	}
	if payload.Data["summary"] != "verbatim" {
		t.Fatalf("data = %v", payload.Data)
	}
}

func TestGetExtractRejectsKeyBoundToOtherDocument(t *testing.T) {
	deps := newTestDeps()
	deps.retriever.boundID = "doc_a"
	deps.retriever.data = json.RawMessage(`{"summary":"a"}`)
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/extract/doc_b", nil)
	req.Header.Set("x-api-key", "sk_live_fake")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for scope mismatch, got %d", res.Code)
	}
}

func TestGetExtractReturnsScopedData(t *testing.T) {
	deps := newTestDeps()
	deps.retriever.boundID = "doc_a"
	deps.retriever.data = json.RawMessage(`{"summary":"a"}`)
	handler := newTestHandler(config.Config{}, deps)

	req := httptest.NewRequest(http.MethodGet, "/extract/doc_a", nil)
	req.Header.Set("x-api-key", "sk_live_fake")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var payload struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.DocumentID != "doc_a" {
		t.Fatalf("documentId = %q", payload.DocumentID)
	}
}
