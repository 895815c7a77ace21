package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasad0706/docintel/internal/core/domain"
	"github.com/prasad0706/docintel/internal/core/ports"
)

// secretPrefix gives operators a recognizable marker without revealing
// anything about the secret itself.
const secretPrefix = "sk_live_"

// secretEntropyBytes is 128 bits of crypto/rand entropy per secret.
const secretEntropyBytes = 16

type APIKeyUseCase struct {
	docs   ports.DocumentRepository
	keys   ports.APIKeyRepository
	hasher ports.SecretHasher
}

func NewAPIKeyUseCase(
	docs ports.DocumentRepository,
	keys ports.APIKeyRepository,
	hasher ports.SecretHasher,
) *APIKeyUseCase {
	return &APIKeyUseCase{
		docs:   docs,
		keys:   keys,
		hasher: hasher,
	}
}

// Issue mints a new secret for a ready document and stores only its hash.
// It returns the key id and the plaintext secret; the plaintext is shown
// to the caller exactly once and must never be logged or persisted.
func (uc *APIKeyUseCase) Issue(ctx context.Context, documentID string) (string, string, error) {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return "", "", fmt.Errorf("fetch document: %w", err)
	}
	if doc.Status != domain.StatusReady {
		return "", "", domain.WrapError(domain.ErrDocumentNotReady, "issue api key", fmt.Errorf("document status is %s", doc.Status))
	}

	secret, err := newSecret()
	if err != nil {
		return "", "", fmt.Errorf("generate api key secret: %w", err)
	}
	keyHash, err := uc.hasher.Hash(secret)
	if err != nil {
		return "", "", fmt.Errorf("hash api key secret: %w", err)
	}

	key := &domain.APIKey{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		KeyHash:    keyHash,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.keys.Create(ctx, key); err != nil {
		return "", "", fmt.Errorf("store api key hash: %w", err)
	}
	return key.ID, secret, nil
}

// Revoke permanently excludes a key from verification. There is no
// un-revoke; issuing a new key is the only way back in.
func (uc *APIKeyUseCase) Revoke(ctx context.Context, documentID, keyID string) error {
	if _, err := uc.docs.GetByID(ctx, documentID); err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	if err := uc.keys.Revoke(ctx, keyID); err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	return nil
}

// VerifySecret resolves a presented secret to its bound document id by
// hash-comparing against every active key. Linear by design: no
// plaintext-derived lookup value is ever stored.
func (uc *APIKeyUseCase) VerifySecret(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "verify api key", fmt.Errorf("no key provided"))
	}

	keys, err := uc.keys.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("list active api keys: %w", err)
	}
	for i := range keys {
		if uc.hasher.Compare(keys[i].KeyHash, secret) {
			return keys[i].DocumentID, nil
		}
	}
	return "", domain.WrapError(domain.ErrForbidden, "verify api key", fmt.Errorf("no matching key"))
}

func newSecret() (string, error) {
	buf := make([]byte, secretEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return secretPrefix + hex.EncodeToString(buf), nil
}
