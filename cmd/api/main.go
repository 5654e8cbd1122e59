package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.Info().Str("env", string(cfg.Env)).Msg("starting foodgram api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.DB)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.DB.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	deps := api.Dependencies{
		DB:     db,
		JWT:    cfg.JWT,
		Limits: cfg.RateLimit,
	}

	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		deps.Redis = rdb
	} else {
		logging.Warn().Msg("redis not configured, recipe creation is not rate limited")
	}

	deps.Images, err = newImageStore(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize image storage")
	}

	engine, err := router.SetupRouter(cfg, deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to set up router")
	}

	if err := server.New(cfg.Server, engine).Run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
	logging.Info().Msg("server stopped")
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, error) {
	if cfg.Driver == "s3" {
		client, err := config.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.Bucket, cfg.PublicURL), nil
	}
	return storage.NewFileStore(cfg.LocalDir, cfg.PublicURL)
}
