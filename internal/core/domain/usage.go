package domain

import "time"

// UsageRecord is one append-only log entry for a data retrieval attempt.
// DocumentID is empty when the presented key could not be resolved.
type UsageRecord struct {
	ID         int64     `json:"-"`
	DocumentID string    `json:"documentId,omitempty"`
	Endpoint   string    `json:"endpoint"`
	Success    bool      `json:"success"`
	LatencyMS  int64     `json:"latency"`
	CreatedAt  time.Time `json:"createdAt"`
}
