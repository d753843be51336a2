package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/propfolio/ledger/internal/adapter/http"
	"github.com/propfolio/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/propfolio/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/propfolio/ledger/internal/adapter/repository/redis"
	"github.com/propfolio/ledger/internal/infrastructure/auth"
	"github.com/propfolio/ledger/internal/infrastructure/config"
	"github.com/propfolio/ledger/internal/infrastructure/logging"
	"github.com/propfolio/ledger/internal/infrastructure/metrics"
	"github.com/propfolio/ledger/internal/infrastructure/postgres"
	"github.com/propfolio/ledger/internal/infrastructure/redis"
	"github.com/propfolio/ledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Infrastructure code (migrator, query retrier) logs through slog.
	slog.SetDefault(logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger)

	epsilon, err := decimal.NewFromString(cfg.AmountEpsilon)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.AmountEpsilon).Msg("invalid AMOUNT_EPSILON")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	bankTxnRepo := postgresRepo.NewBankTxnRepository(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	reminderRepo := postgresRepo.NewReminderRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	appMetrics := metrics.New()

	// Initialize use cases
	reminderUC := usecase.NewReminderUseCase(reminderRepo, periodRepo, auditRepo, idGen, log.Logger)
	periodUC := usecase.NewPeriodUseCase(txManager, periodRepo, auditRepo, reminderUC, idGen, log.Logger)
	postingUC := usecase.NewPostingUseCase(
		txManager,
		usecase.NewRegistryUseCase(accountRepo),
		journalRepo,
		ledgerRepo,
		settlementRepo,
		bankTxnRepo,
		auditRepo,
		periodUC,
		idGen,
		appMetrics,
	).WithRetrier(retrier)
	reconUC := usecase.NewReconciliationUseCase(
		txManager,
		bankTxnRepo,
		settlementRepo,
		postingUC,
		auditRepo,
		epsilon,
		log.Logger,
		appMetrics,
	).WithRetrier(retrier)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, log.Logger)

	// Authentication is optional; without a secret the API trusts the
	// network boundary.
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("jwt authentication enabled")
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		JournalHandler:   handler.NewJournalHandler(postingUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, postingUC),
		BankHandler:      handler.NewBankHandler(reconUC),
		DeadlineHandler:  handler.NewDeadlineHandler(reminderUC, periodUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		Metrics:          appMetrics,
		Logger:           log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
