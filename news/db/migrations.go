package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/credentials/*.sql migrations/partition/*.sql
var migrationsFS embed.FS

// MigrateCredentials applies the global credential schema.
func MigrateCredentials(ctx context.Context, conn *sql.DB) error {
	return migrate(ctx, conn, "migrations/credentials")
}

// MigratePartition applies the per-partition chat and cache schema.
func MigratePartition(ctx context.Context, conn *sql.DB) error {
	return migrate(ctx, conn, "migrations/partition")
}

func migrate(ctx context.Context, conn *sql.DB, dir string) error {
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(goose.DialectTurso, conn, sub)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations %s: %w", dir, err)
	}

	return nil
}
