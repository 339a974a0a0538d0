package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ports "github.com/longlodw/news/news/core/ports"
)

// LibSQLCredentialStore implements CredentialStore over the global libsql
// credential database.
type LibSQLCredentialStore struct {
	db *sql.DB
}

// NewLibSQLCredentialStore creates a new libsql credential store.
func NewLibSQLCredentialStore(db *sql.DB) *LibSQLCredentialStore {
	return &LibSQLCredentialStore{db: db}
}

// Store persists the token → partition mapping. Duplicate tokens overwrite
// in place (idempotent reissue).
func (s *LibSQLCredentialStore) Store(ctx context.Context, cred ports.Credential) error {
	query := `INSERT OR REPLACE INTO api_keys (key, partition_path) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, cred.Token, cred.PartitionPath); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Resolve returns the credential for token, or ErrNotFound.
func (s *LibSQLCredentialStore) Resolve(ctx context.Context, token string) (ports.Credential, error) {
	query := `SELECT key, partition_path FROM api_keys WHERE key = ?`
	var cred ports.Credential
	err := s.db.QueryRowContext(ctx, query, token).Scan(&cred.Token, &cred.PartitionPath)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Credential{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Credential{}, fmt.Errorf("failed to resolve credential: %w", err)
	}
	return cred, nil
}

// ListMany returns up to limit stored credentials.
func (s *LibSQLCredentialStore) ListMany(ctx context.Context, limit int) ([]ports.Credential, error) {
	query := `SELECT key, partition_path FROM api_keys LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []ports.Credential
	for rows.Next() {
		var cred ports.Credential
		if err := rows.Scan(&cred.Token, &cred.PartitionPath); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}
	return creds, nil
}

// LibSQLConversationStore implements ConversationStore over a partition's
// libsql database.
type LibSQLConversationStore struct {
	db *sql.DB
}

// NewLibSQLConversationStore creates a new libsql conversation store.
func NewLibSQLConversationStore(db *sql.DB) *LibSQLConversationStore {
	return &LibSQLConversationStore{db: db}
}

// Append appends a turn to the log and returns its assigned id.
func (s *LibSQLConversationStore) Append(ctx context.Context, role ports.Role, content string) (int64, error) {
	query := `INSERT INTO chats (role, content) VALUES (?, ?)`
	result, err := s.db.ExecContext(ctx, query, string(role), content)
	if err != nil {
		return 0, fmt.Errorf("failed to append turn: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read turn id: %w", err)
	}
	return id, nil
}

// LoadWindow loads the limit most recent turns in ascending id order.
func (s *LibSQLConversationStore) LoadWindow(ctx context.Context, limit int) ([]ports.Turn, error) {
	query := `SELECT id, role, content FROM chats ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []ports.Turn
	for rows.Next() {
		var turn ports.Turn
		var role string
		if err := rows.Scan(&turn.ID, &role, &turn.Content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Role = ports.Role(role)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	// Reverse to get chronological order (oldest first)
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// LibSQLCacheStore implements ContextCacheStore over a partition's libsql
// database.
type LibSQLCacheStore struct {
	db *sql.DB
}

// NewLibSQLCacheStore creates a new libsql context cache store.
func NewLibSQLCacheStore(db *sql.DB) *LibSQLCacheStore {
	return &LibSQLCacheStore{db: db}
}

// Store inserts or replaces the entry for key.
func (s *LibSQLCacheStore) Store(ctx context.Context, key, value string) error {
	query := `INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, ?)`
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, key, value, createdAt); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Load returns the value for key, or ErrNotFound.
func (s *LibSQLCacheStore) Load(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM cache WHERE key = ?`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load cache entry: %w", err)
	}
	return value, nil
}

// LoadMany returns the limit newest entries re-ordered oldest first.
// rowid breaks created_at ties so same-second inserts stay deterministic.
func (s *LibSQLCacheStore) LoadMany(ctx context.Context, limit int) ([]ports.CacheEntry, error) {
	query := `
		SELECT key, value, created_at FROM cache
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var entries []ports.CacheEntry
	for rows.Next() {
		var entry ports.CacheEntry
		var createdAt string
		if err := rows.Scan(&entry.Key, &entry.Value, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		// created_at is stored as RFC3339; a parse failure leaves the
		// zero time rather than failing the whole read.
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}

	// Reverse so consumers see creation order, not recency order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (s *LibSQLCacheStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry in the partition's cache.
func (s *LibSQLCacheStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Ensure the libsql adapters implement their store interfaces.
var (
	_ ports.CredentialStore   = (*LibSQLCredentialStore)(nil)
	_ ports.ConversationStore = (*LibSQLConversationStore)(nil)
	_ ports.ContextCacheStore = (*LibSQLCacheStore)(nil)
)
