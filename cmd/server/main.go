package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"doc-intel-server/internal/config"
	"doc-intel-server/internal/database"
	"doc-intel-server/internal/eli"
	"doc-intel-server/internal/extractor"
	"doc-intel-server/internal/handler"
	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/logger"
	"doc-intel-server/internal/metrics"
	"doc-intel-server/internal/repository"
	"doc-intel-server/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("Starting doc-intel-server",
		zap.String("port", cfg.HTTPPort),
		zap.String("ai_client", cfg.AIClientType),
		zap.String("db", cfg.MaskedDSN()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// AI backend
	aiClient, err := llm.NewAIClient(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize AI client", zap.Error(err))
	}
	if cfg.AIPullModel {
		aiClient.Prepare(ctx, cfg.AIModel)
	}

	// Optional response cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, response cache disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	// Repositories and services
	summaryRepo := repository.NewPgSummaryRepository(pool, log)
	translationRepo := repository.NewPgTranslationRepository(pool, log)
	extractionRepo := repository.NewPgExtractionRepository(pool, log)

	eliClient := eli.NewClient(cfg.ELIBaseURL, cfg.ELITimeout, log)

	summaryService := service.NewSummaryService(
		aiClient, extractor.PDFText, eliClient,
		summaryRepo, extractionRepo, log, cfg.SummarizeMaxAttempts)
	translationService := service.NewTranslationService(
		aiClient, translationRepo, log,
		cfg.TranslateMaxAttempts, cfg.VerifyMaxAttempts)
	batchPipeline := service.NewBatchTranslationPipeline(
		aiClient, translationRepo, log,
		cfg.BatchChunkSize, cfg.BatchMaxAttempts)

	aggregator := metrics.New()

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(handler.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	h := handler.New(
		summaryService, translationService, batchPipeline, eliClient,
		summaryRepo, translationRepo,
		aggregator, log, cfg.RequestTimeout)
	responseCache := handler.NewResponseCache(redisClient, cfg.CacheTTL, log)
	h.RegisterRoutes(router, responseCache)

	p := ginprometheus.NewPrometheus("docintel")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close failed", zap.Error(err))
		}
	}
	log.Info("Server stopped gracefully")
}
