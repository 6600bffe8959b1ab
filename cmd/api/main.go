package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"freshtrack/api/internal/cache"
	"freshtrack/api/internal/config"
	"freshtrack/api/internal/database"
	"freshtrack/api/internal/detect"
	"freshtrack/api/internal/freshness"
	"freshtrack/api/internal/handlers"
	"freshtrack/api/internal/jobs"
	"freshtrack/api/internal/log"
	"freshtrack/api/internal/scratch"
	"freshtrack/api/internal/server"
	"freshtrack/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	scratchStore, err := scratch.NewStore(cfg.Scratch.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init scratch dir")
	}

	table := freshness.NewTable(cfg.Freshness.ShelfLife, cfg.Freshness.DefaultDays)
	engine, err := freshness.NewEngine(table, cfg.Freshness.Timezone, cfg.Freshness.Lookahead)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init freshness engine")
	}

	detector := detect.NewHTTPDetector(cfg.Detection.InferenceURL, cfg.Detection.Labels, cfg.Detection.Timeout)

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, objectStore, scratchStore, detector, engine, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(scratchStore, cfg.Scratch.SweepAge, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
