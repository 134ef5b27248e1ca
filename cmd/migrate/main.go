package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/service"
)

func main() {
	reconcile := flag.Bool("reconcile", false, "Recount every user's recipes after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", config.PrettyLogs())
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, config.PrettyLogs())

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Schema is up to date")

	if !*reconcile {
		return
	}
	fixed, err := service.NewReconcileService(repository.New(db)).Reconcile(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile recipe counters")
	}
	log.Info().Int("corrected", fixed).Msg("Recipe counters reconciled")
}
