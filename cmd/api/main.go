// @title Skill Assess API
// @version 1.0
// @description Multi-type skills assessment: sessions, scoring and evaluation summaries.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "skill-assess/cmd/api/docs"
	"skill-assess/internal/adapter"
	"skill-assess/internal/adapter/messaging"
	"skill-assess/internal/bank"
	"skill-assess/internal/cache"
	"skill-assess/internal/config"
	"skill-assess/internal/database"
	"skill-assess/internal/evaluation"
	"skill-assess/internal/handler"
	"skill-assess/internal/logger"
	"skill-assess/internal/middleware"
	"skill-assess/internal/repository"
	"skill-assess/internal/service"
	"skill-assess/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Question bank. Malformed items are reported and skipped; the rest are served.
	validator := validation.NewValidator()
	items, err := bank.NewLoader(validator).LoadFile(cfg.Bank.Path)
	if err != nil {
		var loadErr *bank.LoadError
		if !errors.As(err, &loadErr) {
			appLogger.Fatal("Failed to load question bank", zap.String("path", cfg.Bank.Path), zap.Error(err))
		}
		for name, itemErr := range loadErr.Rejected {
			appLogger.Error("Item rejected", zap.String("item", name), zap.Error(itemErr))
		}
	}
	catalog := bank.NewCatalog(items)
	appLogger.Info("Question bank loaded", zap.Int("items", len(catalog.Items())))

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.MigrateUp(context.Background(), db.DB, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepository := repository.NewSQLXUserRepository(db)
	evaluationRepository := repository.NewSQLXEvaluationRepository(db)
	itemStatsRepository := repository.NewSQLXItemStatsRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	sessionStore := adapter.NewCacheSessionStore(cacheAdapter, cfg.Evaluation)

	publisher, err := messaging.NewPublisher(cfg.RabbitMQ)
	if err != nil {
		appLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	recorder := service.NewEvaluationRecorder(txManager, userRepository, evaluationRepository, itemStatsRepository, sessionStore, publisher)
	sessionService := service.NewSessionService(catalog, sessionStore, validator, evaluation.NewAssembler(cfg.Evaluation.Locale), recorder)
	historyService := service.NewHistoryService(userRepository, evaluationRepository, itemStatsRepository, validator)
	healthService := service.NewHealthService(db, cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		UnescapePath: true,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Session: handler.NewSessionHandler(sessionService),
		History: handler.NewHistoryHandler(historyService),
		Health:  handler.NewHealthHandler(healthService),
	}, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
