package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/database"
	"github.com/stemsi/questbank/internal/handler"
	"github.com/stemsi/questbank/internal/logger"
	"github.com/stemsi/questbank/internal/middleware"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/router"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/sheet"
	"github.com/stemsi/questbank/internal/validator"
	"github.com/stemsi/questbank/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreBackend).
		Str("version", config.Version).
		Msg("Starting question bank")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL (optional) ──────────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure PostgreSQL")
		}
		pool = p
		defer pool.Close()
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		c, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		rdb = c
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	source, err := sheet.Open(cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure question store")
	}
	questionRepo := repository.NewQuestionRepository(source, log)

	var sessionStore service.SessionStore
	if rdb != nil {
		sessionStore = repository.NewRedisSessionRepository(rdb, cfg.SessionTTL)
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
		sessionStore = repository.NewMemorySessionRepository()
	}

	var recorder service.ExportRecorder
	if rdb != nil && pool != nil {
		recorder = repository.NewExportQueue(rdb)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	questionService := service.NewQuestionService(questionRepo, cfg.StoreTimeout, log)
	documentService := service.NewDocumentService(questionService, recorder, log)
	sessionService := service.NewSessionService(sessionStore, questionService, documentService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:   handler.NewHealthHandler(pool, rdb, cfg.StoreBackend),
		Question: handler.NewQuestionHandler(questionService),
		Document: handler.NewDocumentHandler(documentService, cfg.MaxLogoBytes),
		Session:  handler.NewSessionHandler(sessionService),
		UI:       handler.NewUIHandler(sessionService, questionService, cfg, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if recorder != nil {
		exportWorker := worker.NewExportLogWorker(repository.NewExportLogRepository(pool), rdb, log)
		go exportWorker.Start(workerCtx)
	}

	// ─── Rate Limiter ─────────────────────────────────────────────────
	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisWindow(rdb, cfg.AppendRate, time.Minute, log)
	} else {
		bucket := middleware.NewTokenBucket(cfg.AppendRate, time.Minute)
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					bucket.Cleanup(10 * time.Minute)
				}
			}
		}()
		limiter = bucket
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, router.Deps{
		Sessions:      sessionService,
		AppendLimiter: limiter,
		Renderer:      handler.NewRenderer(),
		Log:           log,
	}, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and let the export worker flush its batch.
	workerCancel()
	if recorder != nil {
		time.Sleep(2 * time.Second)
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
