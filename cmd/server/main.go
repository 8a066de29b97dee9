package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/internal/infrastructure/config"
	"travel-advisory-service/internal/infrastructure/oauth"
	"travel-advisory-service/internal/infrastructure/persistence"
	"travel-advisory-service/internal/infrastructure/router"
	"travel-advisory-service/internal/interface/api"
	"travel-advisory-service/internal/interface/gmail"
	repo "travel-advisory-service/internal/interface/repository"
	"travel-advisory-service/internal/usecase"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
)

func main() {
	// Create logger
	zapLog := logger.NewLogger()
	defer zapLog.Sync()
	var log logger.Logger = zapLog
	log.Info("Starting Travel Advisory Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	log = log.With("version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up storage
	var (
		mongoClient  *mongo.Client
		workflowRepo repository.WorkflowRepository
		advisoryRepo repository.AdvisoryRepository
	)
	switch cfg.StorageType {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		workflowRepo = repo.NewMemoryWorkflowRepository()
		advisoryRepo = repo.NewMemoryAdvisoryRepository()
	default:
		log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		workflowRepo = repo.NewMongoWorkflowRepository(db)
		advisoryRepo = repo.NewMongoAdvisoryRepository(db)
	}

	// Notification outbox
	var outbox repository.NotificationLogRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		outbox, err = repo.NewGormNotificationLogRepository(gormDB)
		if err != nil {
			log.Fatal("Failed to set up notification outbox", "error", err)
		}
	} else {
		log.Info("POSTGRES_DSN not set, notification outbox disabled")
	}

	// Gmail notifier
	var tokenSource oauth2.TokenSource
	if cfg.GmailEnabled() {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		if err := gmailOAuth.Verify(ctx); err != nil {
			log.Error("Gmail credentials rejected, notifications will be simulated", "error", err)
		} else {
			tokenSource = gmailOAuth.GetTokenSource(ctx)
		}
	}
	notifier, err := gmail.NewGmailNotifier(ctx, tokenSource, cfg.GmailSender, outbox, log, m)
	if err != nil {
		log.Fatal("Failed to create Gmail notifier", "error", err)
	}

	if cfg.LLMAPIKey == "" {
		log.Warn("LLM_API_KEY not set, advisory analysis and scripts are disabled")
	}
	gateway := repo.NewHTTPLLMGateway(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout, log, m)

	// Use cases
	impact := usecase.NewAdvisoryImpactOrchestrator(workflowRepo, gateway, notifier, usecase.ImpactOptions{
		Workers:         cfg.ImpactWorkers,
		DedupTTL:        cfg.ImpactDedupTTL,
		FallbackAddress: cfg.NotifyFallbackAddress,
	}, log, m)
	workflowService := usecase.NewWorkflowService(
		workflowRepo,
		advisoryRepo,
		usecase.NewViolationAnalyzer(gateway, log, m),
		usecase.NewItineraryParser(gateway, log),
		log,
	)
	advisoryService := usecase.NewAdvisoryService(advisoryRepo, impact, log)

	// Set up HTTP server
	e := router.NewRouter(api.NewServer(workflowService, advisoryService, impact, log), prometheus.DefaultGatherer, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Travel Advisory Service stopped")
}
