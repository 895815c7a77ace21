package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prasad0706/docintel/internal/core/domain"
)

type keyRepoFake struct {
	keys      []domain.APIKey
	createErr error
}

func (f *keyRepoFake) Create(_ context.Context, key *domain.APIKey) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.keys = append(f.keys, *key)
	return nil
}

func (f *keyRepoFake) ListActive(context.Context) ([]domain.APIKey, error) {
	var active []domain.APIKey
	for _, key := range f.keys {
		if !key.Revoked {
			active = append(active, key)
		}
	}
	return active, nil
}

func (f *keyRepoFake) Revoke(_ context.Context, keyID string) error {
	for i := range f.keys {
		if f.keys[i].ID == keyID {
			f.keys[i].Revoked = true
		}
	}
	return nil
}

func (f *keyRepoFake) DeleteByDocumentID(_ context.Context, documentID string) error {
	var kept []domain.APIKey
	for _, key := range f.keys {
		if key.DocumentID != documentID {
			kept = append(kept, key)
		}
	}
	f.keys = kept
	return nil
}

// plainHasher makes hash output deterministic for tests.
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "hash:" + secret, nil }
func (plainHasher) Compare(hash, secret string) bool   { return hash == "hash:"+secret }

type readyDocRepoFake struct {
	docRepoFake
	status domain.DocumentStatus
	getErr error
}

func (f *readyDocRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.Document{ID: id, Status: f.status}, nil
}

func TestIssueReturnsPrefixedSecretAndStoresOnlyHash(t *testing.T) {
	repo := &keyRepoFake{}
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusReady}, repo, plainHasher{})

	_, secret, err := uc.Issue(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !strings.HasPrefix(secret, "sk_live_") {
		t.Fatalf("expected sk_live_ prefix, got %q", secret)
	}
	if len(secret) != len("sk_live_")+2*secretEntropyBytes {
		t.Fatalf("unexpected secret length %d", len(secret))
	}
	if len(repo.keys) != 1 {
		t.Fatalf("expected one stored key, got %d", len(repo.keys))
	}
	if repo.keys[0].KeyHash == secret || strings.Contains(repo.keys[0].KeyHash, secret) {
		t.Fatalf("plaintext secret must never be stored")
	}
	if repo.keys[0].DocumentID != "doc-1" {
		t.Fatalf("key bound to wrong document: %q", repo.keys[0].DocumentID)
	}
}

func TestIssueRequiresReadyDocument(t *testing.T) {
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusQueued}, &keyRepoFake{}, plainHasher{})

	_, _, err := uc.Issue(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrDocumentNotReady) {
		t.Fatalf("expected ErrDocumentNotReady, got %v", err)
	}
}

func TestIssueUnknownDocument(t *testing.T) {
	notFound := domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("missing"))
	uc := NewAPIKeyUseCase(&readyDocRepoFake{getErr: notFound}, &keyRepoFake{}, plainHasher{})

	_, _, err := uc.Issue(context.Background(), "doc-x")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestVerifySecretMatchesIssuedKey(t *testing.T) {
	repo := &keyRepoFake{}
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusReady}, repo, plainHasher{})

	_, secret, err := uc.Issue(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	documentID, err := uc.VerifySecret(context.Background(), secret)
	if err != nil {
		t.Fatalf("VerifySecret() error = %v", err)
	}
	if documentID != "doc-1" {
		t.Fatalf("expected doc-1, got %q", documentID)
	}
}

func TestVerifySecretRejectsMissingAndWrongKeys(t *testing.T) {
	repo := &keyRepoFake{}
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusReady}, repo, plainHasher{})
	if _, _, err := uc.Issue(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := uc.VerifySecret(context.Background(), ""); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("missing key: expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.VerifySecret(context.Background(), "sk_live_wrong"); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("wrong key: expected ErrForbidden, got %v", err)
	}
}

func TestRevokedKeyNeverVerifiesAgain(t *testing.T) {
	repo := &keyRepoFake{}
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusReady}, repo, plainHasher{})

	_, secret, err := uc.Issue(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := uc.Revoke(context.Background(), "doc-1", repo.keys[0].ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	// The hash is untouched; only the revoked flag excludes the key.
	if repo.keys[0].KeyHash == "" {
		t.Fatalf("revoke must not clear the hash")
	}
	if _, err := uc.VerifySecret(context.Background(), secret); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("expected revoked key to fail verification, got %v", err)
	}
}

func TestIssueGeneratesUniqueSecrets(t *testing.T) {
	repo := &keyRepoFake{}
	uc := NewAPIKeyUseCase(&readyDocRepoFake{status: domain.StatusReady}, repo, plainHasher{})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		_, secret, err := uc.Issue(context.Background(), "doc-1")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if seen[secret] {
			t.Fatalf("duplicate secret generated")
		}
		seen[secret] = true
	}
}
