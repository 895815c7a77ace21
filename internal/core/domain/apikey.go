package domain

import "time"

// APIKey is a document-scoped bearer credential. Only the one-way hash of
// the secret is ever stored; the plaintext is shown once at issue time.
type APIKey struct {
	ID         string    `json:"keyId"`
	DocumentID string    `json:"documentId"`
	KeyHash    string    `json:"-"`
	Revoked    bool      `json:"revoked"`
	CreatedAt  time.Time `json:"createdAt"`
}
