// @title PrepMate API
// @version 1.0
// @description Interview preparation backend: AI generated questions and explanations, sessions and notes.
// @host localhost:8000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"prepmate/internal/adapter"
	"prepmate/internal/adapter/gemini"
	"prepmate/internal/adapter/ollama"
	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/database"
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/handler"
	"prepmate/internal/logger"
	"prepmate/internal/middleware"
	"prepmate/internal/quota"
	"prepmate/internal/repository"
	"prepmate/internal/service"

	_ "prepmate/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepository := repository.NewUserDatabaseAdapter(db)
	sessionRepository := repository.NewSessionDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis is optional; without it explanations are not cached and quota state stays in memory.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		if cfg.Quota.Backend == "redis" {
			appLogger.Fatal("Redis quota backend configured but Redis is unavailable", zap.Error(err))
		}
		appLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized", zap.String("address", cfg.Redis.Address))
	}

	tracker := newQuotaTracker(cfg, cacheAdapter)
	modelClient := newModelClient(cfg)
	pipeline := service.NewAIPipeline(modelClient, tracker, service.RetryPolicyFromConfig(cfg.Retry))
	appLogger.Info("AI pipeline initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", modelClient.Model()),
		zap.String("quota_backend", cfg.Quota.Backend))

	jwtCfg := cfg.JWT
	if jwtCfg.SecretKey == "" {
		jwtCfg.SecretKey = ephemeralSecret()
		appLogger.Warn("JWT secret not configured, using an ephemeral secret; tokens will not survive a restart")
	}
	authService, err := service.NewAuthService(userRepository, jwtCfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	aiService := service.NewAIService(pipeline, tracker, cacheAdapter, cfg.Cache.ExplanationTTL)
	sessionService := service.NewSessionService(sessionRepository, questionRepository, txManager)
	questionService := service.NewQuestionService(sessionRepository, questionRepository, txManager)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(cfg.App.IsProduction()),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "Too many requests from this IP, please try again later",
				Status:  fiber.StatusTooManyRequests,
			})
		},
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.SetupRoutes(app, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		AI:       handler.NewAIHandler(aiService),
		Session:  handler.NewSessionHandler(sessionService),
		Question: handler.NewQuestionHandler(questionService),
	}, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
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

func newModelClient(cfg *config.Config) domain.ModelClient {
	switch cfg.LLM.Provider {
	case "ollama":
		client, err := ollama.NewClient(cfg.Ollama)
		if err != nil {
			logger.Get().Fatal("Failed to create Ollama client", zap.Error(err))
		}
		return client
	default:
		return gemini.NewClient(cfg.Gemini, cfg.Retry.DefaultRetryAfter)
	}
}

func newQuotaTracker(cfg *config.Config, c domain.Cache) domain.QuotaTracker {
	if cfg.Quota.Backend == "redis" && c != nil {
		return quota.NewRedisTracker(c, cfg.Quota.TTL)
	}
	return quota.NewMemoryTracker(cfg.Quota.TTL)
}

func ephemeralSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
