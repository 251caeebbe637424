package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/internal/api/handlers"
	"github.com/reportaudit/backend/internal/audit"
	"github.com/reportaudit/backend/internal/cache/redis"
	"github.com/reportaudit/backend/internal/history"
	"github.com/reportaudit/backend/internal/llm"
	"github.com/reportaudit/backend/internal/metrics"
	"github.com/reportaudit/backend/internal/middleware/ratelimit"
	"github.com/reportaudit/backend/internal/middleware/security"
	"github.com/reportaudit/backend/internal/middleware/validation"
	"github.com/reportaudit/backend/internal/storage/sqlite"
	"github.com/reportaudit/backend/pkg/config"
	appLogger "github.com/reportaudit/backend/pkg/logger"
)

// runRecorder adapts the sqlite client to the pipeline's RunRecorder.
type runRecorder struct {
	db *sqlite.Client
}

func (r *runRecorder) RecordRun(ctx context.Context, reportID string, score int, status audit.ResultStatus, itemCount, latencyMS int) error {
	return r.db.InsertAuditRun(&sqlite.AuditRun{
		ReportID:  reportID,
		Score:     score,
		Status:    string(status),
		ItemCount: itemCount,
		LatencyMS: latencyMS,
		CreatedAt: time.Now(),
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Report Audit API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTLSec,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			defer cacheClient.Close()
		}
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	scoreStore := history.NewSQLiteStore(sqliteClient.DB(), cfg.History.MaxEntries)
	tracker := audit.NewTracker()
	pipeline := audit.NewPipeline(llmClient, tracker, scoreStore, &runRecorder{db: sqliteClient})

	thresholds := audit.ScoreThresholds{
		Good:       cfg.Scoring.GoodThreshold,
		Acceptable: cfg.Scoring.AcceptableThreshold,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	auditHandler := handlers.NewAuditHandler(pipeline, cacheClient, thresholds)
	historyHandler := handlers.NewHistoryHandler(scoreStore, sqliteClient)

	api := app.Group("/api/v1")

	analyze := api.Group("/audits",
		limiter.Middleware(),
		validation.Middleware(validation.Config{Logger: appLogger.GetLogger()}),
	)
	analyze.Post("/", auditHandler.HandleAnalyze)
	analyze.Post("/quick-validate", auditHandler.HandleQuickValidate)

	api.Post("/items/:id/resolve", auditHandler.HandleResolve)
	api.Post("/items/:id/dismiss", auditHandler.HandleDismiss)
	api.Get("/items/:id/facts", auditHandler.HandleFacts)

	api.Get("/history/scores", historyHandler.HandleScores)
	api.Get("/history/runs", historyHandler.HandleRuns)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
