package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/config"
	"github.com/hdbaza/helpdesk-api/internal/database"
	"github.com/hdbaza/helpdesk-api/internal/events"
	"github.com/hdbaza/helpdesk-api/internal/handler"
	"github.com/hdbaza/helpdesk-api/internal/logger"
	"github.com/hdbaza/helpdesk-api/internal/middleware"
	"github.com/hdbaza/helpdesk-api/internal/repository"
	"github.com/hdbaza/helpdesk-api/internal/repository/memstore"
	"github.com/hdbaza/helpdesk-api/internal/repository/mongostore"
	"github.com/hdbaza/helpdesk-api/internal/repository/pgstore"
	"github.com/hdbaza/helpdesk-api/internal/router"
	"github.com/hdbaza/helpdesk-api/internal/service"
	"github.com/hdbaza/helpdesk-api/internal/validator"
	"github.com/hdbaza/helpdesk-api/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("auth_mode", cfg.AuthMode).
		Msg("Starting helpdesk API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Document Store ───────────────────────────────────────────
	checks := map[string]handler.HealthCheck{}
	store, closeStore, err := openStore(ctx, cfg, checks, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var rdb *redis.Client
	var bus events.Bus = events.NewLocalBus()
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		bus = events.NewRedisBus(rdb, config.CacheKey.EventsChannel())
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_URL not set: events stay in-process and logout does not revoke tokens")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	adminService := service.NewAdminService(store.Admins, cfg.DefaultAdmins, log)
	if n, err := adminService.EnsureDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default admins")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("Seeded default admins")
	}

	authConfig, err := buildAuth(cfg, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid auth configuration")
	}
	authService := service.NewAuthService(authConfig, adminService, log)
	ticketService := service.NewTicketService(store, bus, log)
	instructionService := service.NewInstructionService(store, bus, log)
	statsService := service.NewStatsService(store)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Problem:     handler.NewProblemHandler(ticketService, log),
		Instruction: handler.NewInstructionHandler(instructionService, log),
		Admin:       handler.NewAdminHandler(adminService, log),
		Media:       handler.NewMediaHandler(mediaService, cfg.MaxUploadBytes, log),
		Stats:       handler.NewStatsHandler(statsService, log),
		WS:          handler.NewWSHandler(bus, log, cfg.AllowedOrigins),
		System:      handler.NewSystemHandler(checks, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	reporter, err := worker.NewStatsReporter(statsService, cfg.StatsReportCron, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid STATS_REPORT_CRON")
	}
	workers.Add(1)
	go func() {
		defer workers.Done()
		reporter.Start(workerCtx)
	}()

	var loginLimiter *middleware.RateLimiter
	if cfg.LoginRatePerMinute > 0 {
		loginLimiter = middleware.NewRateLimiter(workerCtx, cfg.LoginRatePerMinute, time.Minute)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, loginLimiter, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reporter and wait for a running report to finish.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// openStore connects the configured document store and registers its
// health check. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck, log zerolog.Logger) (*repository.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		db, err := database.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = db.Client().Disconnect(context.Background()) }
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		checks["mongo"] = func(ctx context.Context) error { return mongostore.Ping(ctx, db) }
		return mongostore.New(db), closeFn, nil

	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		checks["postgres"] = pool.Ping
		return pgstore.New(pool), pool.Close, nil

	case config.StorageMemory:
		log.Warn().Msg("Using in-memory store: data is lost on restart")
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// buildAuth assembles the verifier chain and login parts for AUTH_MODE.
// In jwt mode STATIC_TOKENS are still honored for service accounts.
func buildAuth(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) (service.AuthConfig, error) {
	var verifiers []auth.Verifier
	var ac service.AuthConfig

	static, err := auth.ParseStaticTokens(cfg.StaticTokens)
	if err != nil {
		return ac, err
	}
	users, err := auth.ParseCredentialTable(cfg.AuthUsers)
	if err != nil {
		return ac, err
	}

	switch cfg.AuthMode {
	case config.AuthModeJWT:
		var revocations auth.RevocationStore
		if rdb != nil {
			revocations = auth.NewRedisRevocations(rdb)
		}
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, revocations)
		verifiers = append(verifiers, jwtManager)
		ac.Issuer = jwtManager
		ac.Revoker = jwtManager
		if users.Len() > 0 {
			ac.Authenticator = users
		} else {
			log.Warn().Msg("AUTH_USERS empty: password login is disabled")
		}

	case config.AuthModeStatic:
		if static.Len() == 0 {
			return ac, fmt.Errorf("AUTH_MODE=static requires STATIC_TOKENS")
		}

	default:
		return ac, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	if static.Len() > 0 {
		verifiers = append(verifiers, static)
	}
	ac.Verifier = auth.Chain(verifiers...)

	log.Info().
		Int("users", users.Len()).
		Int("static_tokens", static.Len()).
		Msg("Auth configured")
	return ac, nil
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
