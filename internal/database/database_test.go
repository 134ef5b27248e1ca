package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/models"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "data", "test.db"),
	}

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	assert.NoError(t, HealthCheck(context.Background(), db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	recipe := models.Recipe{
		Title:        "Tomato soup",
		Description:  "A warm bowl for cold days",
		Ingredients:  models.StringList{"tomatoes", "salt"},
		Instructions: "Simmer and blend",
		Thumbnail:    "soup-1.png",
	}
	require.NoError(t, db.Create(&recipe).Error)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, recipe.Ingredients, loaded.Ingredients)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
