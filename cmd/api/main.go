package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-backend/config"
	_ "ats-backend/docs" // Important for Swagger
	v1 "ats-backend/internal/delivery/http/v1"
	"ats-backend/internal/domain"
	"ats-backend/internal/repository/memory"
	"ats-backend/internal/repository/postgres"
	"ats-backend/internal/usecase"
	"ats-backend/pkg/database"
	"ats-backend/pkg/events"
	"ats-backend/pkg/logger"
	"ats-backend/pkg/metrics"
	"ats-backend/pkg/redis"
	"ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// @title           ATS Candidate API
// @version         1.0
// @description     Candidate management backend for the applicant tracking system.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting ATS backend", "port", cfg.Port, "env", cfg.AppEnv, "store", cfg.StoreDriver)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	healthChecks := map[string]usecase.HealthCheck{}

	// 3. Setup Repository
	var candidateRepo domain.CandidateRepository
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolOptions{})
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if cfg.DBAutoMigrate {
			if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
				logger.Log.Error("Failed to apply schema", "error", err)
				os.Exit(1)
			}
		}
		candidateRepo = postgres.NewCandidateRepository(dbPool)
		healthChecks["database"] = dbPool.Ping
	default:
		logger.Log.Warn("Using in-memory candidate store; data is lost on restart")
		candidateRepo = memory.NewCandidateRepository()
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			healthChecks["redis"] = func(ctx context.Context) error {
				return redis.HealthCheck(ctx, redisClient)
			}
		}
	}

	// 5. Setup Event Publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaCandidateTopic)
		logger.Log.Info("Publishing candidate events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaCandidateTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	// 6. Setup Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 7. Setup UseCases
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validation.New(), publisher, m)
	healthUC := usecase.NewHealthUsecase(cfg.AppEnv, healthChecks)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		HealthUC:    healthUC,
		Metrics:     m,
		Gatherer:    registry,
		Redis:       redisClient,
		Config:      cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
