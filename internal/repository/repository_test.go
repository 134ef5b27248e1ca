package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func TestRepositories(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		runRepositorySuite(t, testhelpers.SetupTestDatabase(t))
	})
	t.Run("postgres", func(t *testing.T) {
		runRepositorySuite(t, testhelpers.SetupPostgresDatabase(t))
	})
}

func runRepositorySuite(t *testing.T, db *gorm.DB) {
	t.Run("user lookups and duplicates", func(t *testing.T) { testUsers(t, db) })
	t.Run("recipe counter", func(t *testing.T) { testCounter(t, db) })
	t.Run("likes", func(t *testing.T) { testLikes(t, db) })
	t.Run("concurrent likes", func(t *testing.T) { testConcurrentLikes(t, db) })
	t.Run("ordering and filters", func(t *testing.T) { testListing(t, db) })
	t.Run("transaction rollback", func(t *testing.T) { testRollback(t, db) })
	t.Run("delete by owner", func(t *testing.T) { testDeleteByOwner(t, db) })
	t.Run("counter drift", func(t *testing.T) { testDrift(t, db) })
	t.Run("subscribers", func(t *testing.T) { testSubscribers(t, db) })
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func testUsers(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)

	email := uniqueEmail("ada")
	user := &models.User{Name: "Ada", Email: email, PasswordHash: "hash"}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	err := store.Users.Create(ctx, &models.User{Name: "Other", Email: email, PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := store.Users.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	taken, err := store.Users.EmailTaken(ctx, email, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = store.Users.EmailTaken(ctx, email, user.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own email is not taken")

	assert.ErrorIs(t, store.Users.Delete(ctx, uuid.New()), ErrNotFound)
}

func testCounter(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	user := testhelpers.CreateUser(t, db, "Counter", uniqueEmail("counter"), "secret1")

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Users.IncrementRecipes(ctx, user.ID))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Users.DecrementRecipes(ctx, user.ID))
	}

	got, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Recipes, "counter never goes below zero")

	assert.ErrorIs(t, store.Users.IncrementRecipes(ctx, uuid.New()), ErrNotFound)
}

func testLikes(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	owner := testhelpers.CreateUser(t, db, "Owner", uniqueEmail("owner"), "secret1")
	fan := testhelpers.CreateUser(t, db, "Fan", uniqueEmail("fan"), "secret1")
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, "likes-"+uuid.NewString()[:8])

	before, err := store.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, before.Likes)
	assert.NotNil(t, before.Likes)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Recipes.AddLike(ctx, recipe.ID, fan.ID))
	assert.ErrorIs(t, store.Recipes.AddLike(ctx, recipe.ID, fan.ID), ErrDuplicate)

	after, err := store.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fan.ID}, after.Likes)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "liking refreshes updatedAt")

	liked, err := store.Recipes.ListLikedBy(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, recipe.ID, liked[0].ID)

	require.NoError(t, store.Recipes.RemoveLike(ctx, recipe.ID, fan.ID))
	assert.ErrorIs(t, store.Recipes.RemoveLike(ctx, recipe.ID, fan.ID), ErrNotFound)
}

func testConcurrentLikes(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	owner := testhelpers.CreateUser(t, db, "Owner", uniqueEmail("owner"), "secret1")
	fan := testhelpers.CreateUser(t, db, "Fan", uniqueEmail("fan"), "secret1")
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, "race-"+uuid.NewString()[:8])

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Recipes.AddLike(ctx, recipe.ID, fan.ID)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrDuplicate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	got, err := store.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)
}

func testListing(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	owner := testhelpers.CreateUser(t, db, "Lister", uniqueEmail("lister"), "secret1")

	first := testhelpers.CreateRecipe(t, db, owner.ID, "first-"+uuid.NewString()[:8])
	time.Sleep(10 * time.Millisecond)
	second := testhelpers.CreateRecipe(t, db, owner.ID, "second-"+uuid.NewString()[:8])

	owned, err := store.Recipes.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, second.ID, owned[0].ID)
	assert.Equal(t, first.ID, owned[1].ID)

	// Updating the older recipe moves it to the front.
	time.Sleep(10 * time.Millisecond)
	first.Title = "first again"
	require.NoError(t, store.Recipes.Update(ctx, first))

	owned, err = store.Recipes.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, owned[0].ID)

	all, err := store.Recipes.List(ctx)
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].UpdatedAt.After(all[i-1].UpdatedAt))
	}

	recent, err := store.Recipes.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func testRollback(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	owner := testhelpers.CreateUser(t, db, "Tx", uniqueEmail("tx"), "secret1")

	boom := errors.New("boom")
	recipe := &models.Recipe{
		Title:        "rolled back",
		Description:  "never persisted at all",
		Ingredients:  models.StringList{"air"},
		Instructions: "none",
		Thumbnail:    "x.png",
		CreatedBy:    owner.ID,
	}
	err := store.Transaction(ctx, func(tx *Store) error {
		require.NoError(t, tx.Recipes.Create(ctx, recipe))
		require.NoError(t, tx.Users.IncrementRecipes(ctx, owner.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Recipes.GetByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := store.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Recipes)
}

func testDeleteByOwner(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	owner := testhelpers.CreateUser(t, db, "Leaving", uniqueEmail("leaving"), "secret1")
	other := testhelpers.CreateUser(t, db, "Staying", uniqueEmail("staying"), "secret1")

	mine := testhelpers.CreateRecipe(t, db, owner.ID, "mine-"+uuid.NewString()[:8])
	theirs := testhelpers.CreateRecipe(t, db, other.ID, "theirs-"+uuid.NewString()[:8])
	require.NoError(t, store.Recipes.AddLike(ctx, mine.ID, other.ID))
	require.NoError(t, store.Recipes.AddLike(ctx, theirs.ID, owner.ID))

	n, err := store.Recipes.DeleteByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, store.Recipes.DeleteLikesByUser(ctx, owner.ID))

	var likes int64
	require.NoError(t, db.Model(&models.RecipeLike{}).Where("recipe_id = ? OR user_id = ?", mine.ID, owner.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	kept, err := store.Recipes.GetByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.Likes)
}

func testDrift(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	user := testhelpers.CreateUser(t, db, "Drift", uniqueEmail("drift"), "secret1")
	testhelpers.CreateRecipe(t, db, user.ID, "d1-"+uuid.NewString()[:8])
	testhelpers.CreateRecipe(t, db, user.ID, "d2-"+uuid.NewString()[:8])

	drift, err := store.Users.FindCounterDrift(ctx)
	require.NoError(t, err)

	var found *CounterDrift
	for i := range drift {
		if drift[i].UserID == user.ID {
			found = &drift[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 0, found.Stored)
	assert.Equal(t, 2, found.Actual)

	require.NoError(t, store.Users.RecountRecipes(ctx, user.ID))
	got, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Recipes)
}

func testSubscribers(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	store := New(db)
	email := uniqueEmail("sub")

	require.NoError(t, store.Subscribers.Create(ctx, &models.Subscriber{Email: email}))
	assert.ErrorIs(t, store.Subscribers.Create(ctx, &models.Subscriber{Email: email}), ErrDuplicate)

	exists, err := store.Subscribers.Exists(ctx, email)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Subscribers.DeleteByEmail(ctx, email))
	assert.ErrorIs(t, store.Subscribers.DeleteByEmail(ctx, email), ErrNotFound)
}
