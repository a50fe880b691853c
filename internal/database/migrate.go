package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir    = "migrations"
	migrationTimeout = time.Minute
)

// Migrate applies every pending embedded migration.
func (db *DB) Migrate(ctx context.Context) error {
	return db.withSQL(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		slog.Info("applying migrations")
		if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		slog.Info("migrations applied")
		return nil
	})
}

// MigrationStatus logs applied and pending migrations.
func (db *DB) MigrationStatus(ctx context.Context) error {
	return db.withSQL(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		if err := goose.StatusContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the latest migration, or down to targetVersion when it is positive.
func (db *DB) MigrateDown(ctx context.Context, targetVersion int64) error {
	return db.withSQL(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		if targetVersion > 0 {
			slog.Info("rolling back migrations", "target", targetVersion)
			if err := goose.DownToContext(ctx, sqlDB, migrationsDir, targetVersion); err != nil {
				return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
			}
			return nil
		}

		slog.Info("rolling back latest migration")
		if err := goose.DownContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("rollback latest migration: %w", err)
		}
		return nil
	})
}

func (db *DB) withSQL(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if db == nil || db.Pool == nil {
		return errors.New("database pool is not initialized")
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	runCtx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	return fn(runCtx, sqlDB)
}

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}
