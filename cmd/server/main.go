package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/CoachFinance/internal/config"
	"github.com/saeid-a/CoachFinance/internal/database"
	"github.com/saeid-a/CoachFinance/internal/logging"
	"github.com/saeid-a/CoachFinance/internal/middleware"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/saeid-a/CoachFinance/internal/routes"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	if !cfg.EnvFileLoaded {
		appLogger.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		appLogger.Fatal("DB_URL is required")
	}
	db, err := database.Connect(ctx, cfg.DBUrl)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL")

	userService := services.NewUserService(repository.NewUserRepository(db), appLogger)
	if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		appLogger.Fatal("failed to seed admin account", zap.Error(err))
	}

	limiter := newLimiterStore(ctx, cfg, appLogger)

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Middleware
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, db, limiter, appLogger)

	go func() {
		<-ctx.Done()
		appLogger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	// 4. Start Server
	appLogger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("server failed to start", zap.Error(err))
	}
}

// newLimiterStore prefers Redis so limits hold across instances, and falls
// back to process memory with a periodic sweep.
func newLimiterStore(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) middleware.LimiterStore {
	if cfg.RedisURL != "" {
		store, err := middleware.NewRedisStore(ctx, cfg.RedisURL)
		if err == nil {
			appLogger.Info("rate limiter using redis")
			go func() {
				<-ctx.Done()
				_ = store.Close()
			}()
			return store
		}
		appLogger.Warn("redis unavailable, rate limiter using memory", zap.Error(err))
	}

	store := middleware.NewMemoryStore()
	go func() {
		ticker := time.NewTicker(cfg.AdminRateWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Cleanup()
			}
		}
	}()
	return store
}
