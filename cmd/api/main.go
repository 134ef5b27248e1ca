package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/router"
	"github.com/pageza/recipeshare/backend/internal/server"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", config.PrettyLogs())
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, config.PrettyLogs())
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			log.Warn().Err(err).Msg("Redis unavailable, rate limiting disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	files, err := storage.NewFromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}
	mailer, err := service.NewMailer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mailer")
	}

	store := repository.New(db)
	auth := service.NewAuthService(cfg.JWTSecret)
	notifications := service.NewNotificationService(store, mailer, cfg.FrontendURL)
	reconciler := service.NewReconcileService(store)

	scheduler := service.NewScheduler()
	if err := scheduler.Add("weekly-digest", cfg.NotifyCron, notifications.Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule notifications")
	}
	if err := scheduler.Add("recipe-counter-reconcile", cfg.ReconcileCron, reconciler.Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule reconciler")
	}
	scheduler.Start()

	handler := router.SetupRouter(router.Dependencies{
		DB:          db,
		Redis:       redisClient,
		Files:       files,
		Auth:        auth,
		Recipes:     service.NewRecipeService(store, files),
		Users:       service.NewUserService(store, files, auth),
		Subscribers: service.NewSubscriberService(store),
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := server.New(cfg.Addr(), handler)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	if err := scheduler.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled jobs did not finish in time")
	}
	log.Info().Msg("Server stopped")
}
