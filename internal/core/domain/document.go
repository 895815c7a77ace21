package domain

import (
	"encoding/json"
	"time"
)

type DocumentStatus string

const (
	StatusQueued     DocumentStatus = "queued"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document tracks a user-submitted file or URL through the extraction
// lifecycle. Exactly one of SourceURL/StoragePath is set, depending on
// whether the document was registered by URL or uploaded directly.
type Document struct {
	ID          string         `json:"documentId"`
	SourceURL   string         `json:"fileUrl,omitempty"`
	StoragePath string         `json:"-"`
	FileName    string         `json:"fileName,omitempty"`
	MimeType    string         `json:"fileType,omitempty"`
	FileSize    int64          `json:"fileSize,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ExtractionResult is the structured output of one successful AI extraction.
// Data is stored verbatim; the service never rewrites it after creation.
type ExtractionResult struct {
	DocumentID string          `json:"documentId"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// SupportedMimeTypes lists the content types the extraction pipeline
// accepts. Anything else is rejected before an AI call is made.
var SupportedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
}

func IsSupportedMimeType(mimeType string) bool {
	_, ok := SupportedMimeTypes[mimeType]
	return ok
}
