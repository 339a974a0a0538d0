package coreports

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups whose subject does not exist. Callers
// treat it as an empty result or an authorization failure, never a crash.
var ErrNotFound = errors.New("not found")

// Role attributes a conversation turn to one side of the exchange.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Credential maps an opaque tenant token to its storage partition.
type Credential struct {
	Token         string
	PartitionPath string
}

// Turn is one message in a tenant's conversation log. IDs are strictly
// increasing within a partition and define chronological order.
type Turn struct {
	ID      int64
	Role    Role
	Content string
}

// CacheEntry is a handle to a backend-side materialized context plus an
// application-chosen label. The most recently created entry is the active
// context for its partition.
type CacheEntry struct {
	Key       string
	Value     string
	CreatedAt time.Time
}

// CredentialStore is the global token → partition mapping. Resolve after a
// successful Store for the same token always returns the stored partition
// path; duplicate Store calls overwrite in place.
type CredentialStore interface {
	Store(ctx context.Context, cred Credential) error
	Resolve(ctx context.Context, token string) (Credential, error)
	ListMany(ctx context.Context, limit int) ([]Credential, error)
}

// ConversationStore is a per-partition append-only log of chat turns.
type ConversationStore interface {
	// Append assigns the next id, appends the turn, and returns the id.
	Append(ctx context.Context, role Role, content string) (int64, error)
	// LoadWindow returns up to limit most recent turns in ascending id
	// order. Fewer than limit exist, all of them come back, oldest first.
	LoadWindow(ctx context.Context, limit int) ([]Turn, error)
}

// ContextCacheStore is a per-partition key/value store of materialized
// context handles, ordered by creation time.
type ContextCacheStore interface {
	Store(ctx context.Context, key, value string) error
	Load(ctx context.Context, key string) (string, error)
	// LoadMany selects the limit newest entries by creation time and
	// returns them re-ordered oldest first, so consumers iterate in
	// creation order. Downstream logic depends on this exact shape.
	LoadMany(ctx context.Context, limit int) ([]CacheEntry, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
