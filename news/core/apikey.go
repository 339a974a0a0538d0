package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	ports "github.com/longlodw/news/news/core/ports"
)

// ApiKeyHandler issues tenant credentials and allocates their storage
// partitions.
type ApiKeyHandler struct {
	base  string
	creds ports.CredentialStore
}

// NewApiKeyHandler creates a provisioner rooting partitions under base.
func NewApiKeyHandler(base string, creds ports.CredentialStore) *ApiKeyHandler {
	return &ApiKeyHandler{base: base, creds: creds}
}

// Issue generates a fresh credential, creates its partition directory, and
// persists the mapping. The raw token is the only secret returned; the
// partition directory name is the SHA-256 of the token, so the location is
// re-derivable without storing the token in the filesystem layout.
//
// Any failure aborts issuance; no partial credential is returned.
func (h *ApiKeyHandler) Issue(ctx context.Context) (string, error) {
	token := "key-" + uuid.NewString()

	sum := sha256.Sum256([]byte(token))
	partition := filepath.Join(h.base, hex.EncodeToString(sum[:]))

	if err := os.MkdirAll(partition, 0o755); err != nil {
		return "", fmt.Errorf("failed to create partition %s: %w", partition, err)
	}

	if err := h.creds.Store(ctx, ports.Credential{Token: token, PartitionPath: partition}); err != nil {
		return "", fmt.Errorf("failed to persist credential: %w", err)
	}

	return token, nil
}
