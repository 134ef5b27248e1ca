package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
)

// Migrate brings the schema up to date for every model
func Migrate(db *gorm.DB) error {
	log.Info().Str("dialect", db.Dialector.Name()).Msg("Running schema migration")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
