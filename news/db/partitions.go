package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	internal "github.com/longlodw/news/news"
)

// PartitionManager hands out one database connection per tenant partition.
// Each partition path maps to its own libsql file; connections are opened
// lazily, migrated on first open, and cached for the process lifetime.
// Partitions never share a connection, which keeps tenants isolated without
// cross-tenant locking.
type PartitionManager struct {
	mu     sync.RWMutex
	dbs    map[string]*sql.DB
	logger zerolog.Logger
}

// NewPartitionManager creates an empty partition manager.
func NewPartitionManager(logger zerolog.Logger) *PartitionManager {
	return &PartitionManager{
		dbs:    make(map[string]*sql.DB),
		logger: logger,
	}
}

// Open returns the connection for the partition rooted at partitionPath,
// opening and migrating it on first use.
func (pm *PartitionManager) Open(ctx context.Context, partitionPath string) (*sql.DB, error) {
	if partitionPath == "" {
		return nil, fmt.Errorf("partition path cannot be empty")
	}

	pm.mu.RLock()
	conn, ok := pm.dbs[partitionPath]
	pm.mu.RUnlock()
	if ok {
		return conn, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if conn, ok = pm.dbs[partitionPath]; ok {
		return conn, nil
	}

	dbPath := filepath.Join(partitionPath, internal.DefaultPartitionDB)
	conn, err := Connect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition %s: %w", partitionPath, err)
	}

	if err := MigratePartition(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate partition %s: %w", partitionPath, err)
	}

	pm.logger.Debug().Str("partition", partitionPath).Msg("opened partition database")
	pm.dbs[partitionPath] = conn
	return conn, nil
}

// Close closes all partition connections.
func (pm *PartitionManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for path, conn := range pm.dbs {
		_ = conn.Close()
		delete(pm.dbs, path)
	}
	return nil
}
