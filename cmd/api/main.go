package main

import (
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

	"github.com/chiranjan-on-git/WhistleSafe/internal/api/handlers"
	"github.com/chiranjan-on-git/WhistleSafe/internal/attachment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/enrichment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/ingestion"
	"github.com/chiranjan-on-git/WhistleSafe/internal/metrics"
	"github.com/chiranjan-on-git/WhistleSafe/internal/middleware/ratelimit"
	"github.com/chiranjan-on-git/WhistleSafe/internal/middleware/validation"
	"github.com/chiranjan-on-git/WhistleSafe/internal/scoring"
	"github.com/chiranjan-on-git/WhistleSafe/internal/sentiment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/reportlog"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/sqlite"
	"github.com/chiranjan-on-git/WhistleSafe/pkg/config"
	appLogger "github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

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

	appLogger.Info("Starting WhistleSafe API Server")

	metrics.Init()

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize report store", zap.Error(err))
	}
	if closeStore != nil {
		defer closeStore()
	}

	attachments, err := attachment.NewStore(cfg.Uploads.Dir)
	if err != nil {
		appLogger.Fatal("Failed to initialize attachment store", zap.Error(err))
	}

	policy, err := buildPolicy(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize scoring policy", zap.Error(err))
	}
	appLogger.Info("Scoring policy selected", zap.String("policy", policy.Name()))

	pipeline := ingestion.NewPipeline(policy, store, attachments, enrichment.NewTagger())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	reportHandler := handlers.NewReportHandler(pipeline, store, attachments)
	limiter := ratelimit.New(cfg.RateLimit.SubmitPerMinute)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the WhistleSafe API!",
		})
	})

	app.Post("/submit-report",
		limiter.Middleware(),
		validation.Middleware(validation.Config{}),
		reportHandler.SubmitReport,
	)
	app.Get("/reports", reportHandler.ListReports)
	app.Get("/download/:filename", reportHandler.DownloadAttachment)

	app.Get("/health", func(c *fiber.Ctx) error {
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

func buildStore(cfg *config.Config) (ingestion.Store, func() error, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		store, err := sqlite.NewStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.InitSchema(); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := reportlog.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

func buildPolicy(cfg *config.Config) (scoring.Policy, error) {
	switch cfg.Scoring.Policy {
	case "basic":
		return scoring.NewBasicPolicy(), nil
	case "extended":
		return scoring.NewExtendedPolicy(sentiment.NewVADER()), nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", cfg.Scoring.Policy)
	}
}
