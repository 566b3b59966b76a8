package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escrow-ledger/config"
	httpHandler "escrow-ledger/internal/adapter/http/handler"
	"escrow-ledger/internal/adapter/notify"
	pgStorage "escrow-ledger/internal/adapter/storage/postgres"
	redisStorage "escrow-ledger/internal/adapter/storage/redis"
	"escrow-ledger/internal/adapter/tokenledger"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/internal/service"
	"escrow-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("admin", cfg.Ledger.Admin).
		Msg("Starting Escrow Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Run schema migrations
	if err := pgStorage.Migrate(cfg.Database.DSN(), log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	identityRepo := pgStorage.NewIdentityRepo(pool)
	appRepo := pgStorage.NewApplicationRepo(pool)
	tokenRepo := pgStorage.NewTokenRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	orderCache := redisStorage.NewOrderCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	auth := service.NewAuthorizer(cfg.Ledger.Admin)
	hashSvc := service.NewArgon2HashService()
	authTokenSvc := service.NewJWTAuthTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	dialer := tokenledger.NewHTTPDialer(10 * time.Second)

	var notifier ports.Notifier = notify.NewLogNotifier(log)
	if cfg.Webhook.URL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Webhook, log)
	}

	// Initialize business services
	authSvc := service.NewAuthService(identityRepo, hashSvc, authTokenSvc, log)
	appSvc := service.NewApplicationService(appRepo, auth, notifier, log)
	tokenSvc := service.NewTokenRegistryService(tokenRepo, auth, log)
	paymentSvc := service.NewPaymentService(
		appRepo,
		tokenRepo,
		balanceRepo,
		orderRepo,
		orderCache,
		dialer,
		transactor,
		notifier,
		cfg.Ledger.Custodian,
		log,
	)
	withdrawalSvc := service.NewWithdrawalService(
		appRepo,
		tokenRepo,
		balanceRepo,
		withdrawalRepo,
		dialer,
		transactor,
		auth,
		notifier,
		log,
	)
	querySvc := service.NewQueryService(appRepo, balanceRepo, orderRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AppSvc:         appSvc,
		TokenSvc:       tokenSvc,
		PaymentSvc:     paymentSvc,
		WithdrawalSvc:  withdrawalSvc,
		QuerySvc:       querySvc,
		AuthTokenSvc:   authTokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
