package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-movie-api/internal/auth"
	"go-movie-api/internal/config"
	"go-movie-api/internal/database"
	"go-movie-api/internal/event"
	"go-movie-api/internal/handler"
	"go-movie-api/internal/middleware"
	"go-movie-api/internal/repository"
	"go-movie-api/internal/repository/memory"
	mongostore "go-movie-api/internal/repository/mongo"
	"go-movie-api/internal/repository/postgres"
	"go-movie-api/internal/router"
	"go-movie-api/internal/service"
)

type App struct {
	cfg          *config.Config
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TRUSTED_PROXIES: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout+30*time.Second)
	defer cancel()

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	slog.Info("store ready", "backend", backend, "call_timeout", cfg.StoreTimeout)
	store = repository.WithTimeout(store, cfg.StoreTimeout)

	a := &App{cfg: cfg}
	a.cleanupFuncs = append(a.cleanupFuncs, store.Close)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer, err := auth.NewIssuer([]byte(cfg.JWTSecret))
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	verifier, err := auth.NewJWTStrategy([]byte(cfg.JWTSecret), store.Users())
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize jwt strategy: %w", err)
	}
	local := auth.NewLocalStrategy(store.Users(), hasher)

	bus := event.NewBus()
	auditCtx, auditCancel := context.WithCancel(context.Background())
	go event.NewAuditLogger(slog.Default()).Run(auditCtx, bus)
	a.cleanupFuncs = append(a.cleanupFuncs, auditCancel)

	authService := service.NewAuthService(local, issuer)
	userService := service.NewUserService(store.Users(), store.Movies(), hasher, bus)
	movieService := service.NewMovieService(store.Movies())

	limiter := newLimiter(cfg)
	a.cleanupFuncs = append(a.cleanupFuncs, func() {
		if err := limiter.Close(); err != nil {
			slog.Warn("rate limiter close failed", "error", err)
		}
	})

	rateLimit := middleware.NewRateLimitMiddleware(limiter, cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	rateLimit.TrustProxies(proxies)

	appRouter := router.New(router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      rateLimit,
		Metrics:        middleware.NewMetrics(),
	}, middleware.NewGuard(verifier), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		Movie:  handler.NewMovieHandler(movieService),
		Health: handler.NewHealthHandler(store, backend),
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

// OpenStore connects to the backend named by DATABASE_URL and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		return postgres.New(db), nil

	case config.BackendMongo:
		slog.Info("connecting to MongoDB")
		db, err := database.NewMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase, cfg.StoreTimeout, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		return mongostore.New(db), nil

	default:
		slog.Warn("using in-memory store; data is lost on restart")
		return memory.New(memory.Catalog()), nil
	}
}

// newLimiter prefers Redis when configured and reachable.
func newLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryLimiter()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, falling back to in-memory rate limiting", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return middleware.NewMemoryLimiter()
	}

	slog.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
	return middleware.NewRedisLimiter(client)
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	// Run in reverse so the store closes last.
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}
