package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/startupstack/startupstack/internal/api"
	"github.com/startupstack/startupstack/internal/checkout"
	"github.com/startupstack/startupstack/internal/config"
	"github.com/startupstack/startupstack/internal/database"
	"github.com/startupstack/startupstack/internal/llm"
	mw "github.com/startupstack/startupstack/internal/middleware"
	"github.com/startupstack/startupstack/internal/operations"
	"github.com/startupstack/startupstack/internal/quota"
	iredis "github.com/startupstack/startupstack/internal/redis"
	"github.com/startupstack/startupstack/internal/server"
	"github.com/startupstack/startupstack/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Migrations
	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Users
	userRepo := users.NewRepository(pool)
	userCache := users.NewCache(redisClient)
	userSvc := users.NewService(userRepo, userCache)
	userHandler := users.NewHandler(userSvc)

	// Operations + quota
	historyRepo := operations.NewRepository(pool)
	quotaSvc := quota.NewService(userSvc, historyRepo, cfg.Limits.FreeTrialDailyLimit)
	generator := llm.NewClient(cfg.OpenAI)
	opSvc := operations.NewService(generator, historyRepo, quotaSvc, userSvc)
	opHandler := operations.NewHandler(opSvc)
	historyHandler := operations.NewHistoryHandler(historyRepo)

	// Checkout
	checkoutClient := checkout.NewClient(cfg.Checkout)
	checkoutSvc := checkout.NewService(userSvc, checkoutClient)
	checkoutHandler := checkout.NewHandler(checkoutSvc)

	// Router
	limiter := mw.NewRateLimiter(redisClient, cfg.RateLimit.CheckoutMaxRequests, cfg.RateLimit.CheckoutWindowSec)
	router := api.NewRouter(pool, api.RouterConfig{
		CORSAllowedOrigins:  cfg.CORS.AllowedOrigins,
		CheckoutRateLimiter: limiter.Middleware,
	}, api.HandlerSet{
		DispatchOperation: opHandler.Dispatch,

		SignupUser:  userHandler.Signup,
		GetUser:     userHandler.Get,
		ListHistory: historyHandler.List,

		CreateCheckout: checkoutHandler.Create,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
