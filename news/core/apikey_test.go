package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCreatesCredentialAndPartition(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	creds := newStubCredentialStore()
	handler := NewApiKeyHandler(base, creds)

	token, err := handler.Issue(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "key-"))

	// The partition directory is the hash of the token, so its location
	// is re-derivable from the secret alone.
	sum := sha256.Sum256([]byte(token))
	wantPartition := filepath.Join(base, hex.EncodeToString(sum[:]))

	cred, err := creds.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, wantPartition, cred.PartitionPath)

	info, err := os.Stat(wantPartition)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIssueNeverCollides(t *testing.T) {
	ctx := context.Background()
	creds := newStubCredentialStore()
	handler := NewApiKeyHandler(t.TempDir(), creds)

	tokens := make(map[string]struct{}, 10000)
	partitions := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		token, err := handler.Issue(ctx)
		require.NoError(t, err)

		_, dup := tokens[token]
		require.False(t, dup, "duplicate token issued: %s", token)
		tokens[token] = struct{}{}

		cred, err := creds.Resolve(ctx, token)
		require.NoError(t, err)
		_, dup = partitions[cred.PartitionPath]
		require.False(t, dup, "duplicate partition: %s", cred.PartitionPath)
		partitions[cred.PartitionPath] = struct{}{}
	}
}

func TestIssueStoreFailureReturnsNoCredential(t *testing.T) {
	creds := newStubCredentialStore()
	creds.storeErr = errors.New("write failed")
	handler := NewApiKeyHandler(t.TempDir(), creds)

	token, err := handler.Issue(context.Background())
	require.Error(t, err)
	assert.Empty(t, token)
}
