package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/models"
)

func TestReconcileFixesDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	clean := f.user(t, "clean")

	for i := 0; i < 3; i++ {
		_, err := f.recipes.Create(ctx, owner.ID, validInput(), upload("x.png", 10))
		require.NoError(t, err)
	}
	_, err := f.recipes.Create(ctx, clean.ID, validInput(), upload("y.png", 10))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", owner.ID).UpdateColumn("recipes", 42).Error)

	fixed, err := f.reconciler.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 3, f.reload(t, owner.ID).Recipes)
	assert.Equal(t, 1, f.reload(t, clean.ID).Recipes)

	fixed, err = f.reconciler.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
