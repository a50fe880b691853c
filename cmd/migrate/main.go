package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go-movie-api/internal/config"
	"go-movie-api/internal/database"
	"go-movie-api/internal/logger"
	"go-movie-api/internal/model"
	"go-movie-api/internal/repository/memory"
	mongostore "go-movie-api/internal/repository/mongo"
	"go-movie-api/internal/repository/postgres"
)

type movieInserter interface {
	Insert(ctx context.Context, m model.Movie) (bool, error)
}

func main() {
	command := flag.String("command", "up", "one of: up, status, down, seed")
	target := flag.Int64("target", -1, "version to migrate down to (down only; default is one step)")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: logger.Redact,
	})))

	if err := run(*command, *target); err != nil {
		slog.Error("migrate failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(command string, target int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := cfg.Backend()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch backend {
	case config.BackendPostgres:
		return runPostgres(ctx, cfg, command, target)
	case config.BackendMongo:
		return runMongo(ctx, cfg, command)
	default:
		return fmt.Errorf("backend %q has no schema to migrate", backend)
	}
}

func runPostgres(ctx context.Context, cfg *config.Config, command string, target int64) error {
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up":
		return db.Migrate(ctx)
	case "status":
		return db.MigrationStatus(ctx)
	case "down":
		return db.MigrateDown(ctx, target)
	case "seed":
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		return seed(ctx, postgres.New(db).Movies().(movieInserter))
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runMongo(ctx context.Context, cfg *config.Config, command string) error {
	db, err := database.NewMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase, cfg.StoreTimeout, 2)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up":
		// Indexes are created by NewMongo.
		slog.Info("mongo indexes ensured", "database", cfg.MongoDatabase)
		return nil
	case "seed":
		return seed(ctx, mongostore.New(db).Movies().(movieInserter))
	default:
		return fmt.Errorf("command %q is not supported for mongo", command)
	}
}

func seed(ctx context.Context, movies movieInserter) error {
	result, err := seedMovies(ctx, movies, memory.Catalog())
	slog.Info("seed finished", "inserted", result.inserted, "skipped", result.skipped, "failed", result.failed)
	return err
}

type seedResult struct {
	inserted int
	skipped  int
	failed   int
}

func seedMovies(ctx context.Context, movies movieInserter, catalog []model.Movie) (seedResult, error) {
	var result seedResult
	var errs []error
	for _, m := range catalog {
		inserted, err := movies.Insert(ctx, m)
		switch {
		case err != nil:
			result.failed++
			errs = append(errs, fmt.Errorf("%s: %w", m.ID, err))
		case inserted:
			result.inserted++
		default:
			result.skipped++
		}
	}
	return result, errors.Join(errs...)
}
