package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"escrow-ledger/internal/adapter/http/middleware"
	redisStore "escrow-ledger/internal/adapter/storage/redis"
	"escrow-ledger/internal/app/metrics"
	"escrow-ledger/internal/core/ports"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AppSvc         ports.ApplicationService
	TokenSvc       ports.TokenRegistryService
	PaymentSvc     ports.PaymentService
	WithdrawalSvc  ports.WithdrawalService
	QuerySvc       ports.QueryService
	AuthTokenSvc   ports.AuthTokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	r.Use(metrics.HTTPMiddleware())

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", metrics.Handler())

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.AuthTokenSvc, deps.Logger)

	// --- Application registry ---
	appHandler := NewApplicationHandler(deps.AppSvc)
	queryHandler := NewQueryHandler(deps.QuerySvc)
	apps := v1.Group("/applications")
	{
		apps.POST("", jwtAuth, rl("registry"), appHandler.Register)
		apps.PUT("/:id/status", jwtAuth, rl("registry"), appHandler.SetStatus)
		apps.GET("/:id", rl("queries"), appHandler.Get)
		apps.GET("/:id/balance", rl("queries"), queryHandler.GetBalance)
		apps.GET("/:id/balances", rl("queries"), queryHandler.GetBalances)
		apps.GET("/:id/orders", rl("queries"), queryHandler.ListOrders)
		apps.GET("/:id/orders/:orderNo", rl("queries"), queryHandler.GetOrder)
	}

	// --- Token registry ---
	tokenHandler := NewTokenHandler(deps.TokenSvc)
	tokens := v1.Group("/tokens")
	{
		tokens.POST("", jwtAuth, rl("registry"), tokenHandler.Register)
		tokens.GET("/:symbol", rl("queries"), tokenHandler.Get)
	}

	// --- Payments and withdrawals (authenticated) ---
	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments", jwtAuth)
	{
		payments.POST("", rl("payments"), paymentHandler.Pay)
		payments.POST("/token", rl("payments"), paymentHandler.TokenPay)
	}

	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)
	withdrawals := v1.Group("/withdrawals", jwtAuth)
	{
		withdrawals.POST("", rl("withdrawals"), withdrawalHandler.Withdraw)
		withdrawals.POST("/token", rl("withdrawals"), withdrawalHandler.TokenWithdraw)
	}

	// --- Public read surface ---
	orders := v1.Group("/orders")
	{
		orders.POST("/query", rl("queries"), queryHandler.QueryOrders)
		orders.POST("/count", rl("queries"), queryHandler.QueryAppOrderCounts)
	}

	counts := v1.Group("/counts")
	{
		counts.GET("/applications", rl("queries"), appHandler.Count)
		counts.GET("/orders", rl("queries"), queryHandler.GetTotalOrderCount)
		counts.GET("/orders/:app", rl("queries"), queryHandler.GetAppOrderCount)
	}

	return r
}
