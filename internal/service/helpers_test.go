package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
)

type fixture struct {
	db         *gorm.DB
	store      *repository.Store
	files      *testhelpers.FakeFileStore
	auth       *service.AuthService
	recipes    *service.RecipeService
	users      *service.UserService
	subs       *service.SubscriberService
	reconciler *service.ReconcileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testhelpers.SetupTestDatabase(t)
	store := repository.New(db)
	files := testhelpers.NewFakeFileStore()
	auth := service.NewAuthService("test-secret")

	return &fixture{
		db:         db,
		store:      store,
		files:      files,
		auth:       auth,
		recipes:    service.NewRecipeService(store, files),
		users:      service.NewUserService(store, files, auth),
		subs:       service.NewSubscriberService(store),
		reconciler: service.NewReconcileService(store),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	return testhelpers.CreateUser(t, f.db, name, name+"-"+uuid.NewString()[:8]+"@example.com", "secret1")
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	u, err := f.store.Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }

func validInput() types.RecipeInput {
	return types.RecipeInput{
		Title:        strPtr("Tomato soup"),
		Description:  strPtr("A warm bowl for cold evenings"),
		Ingredients:  []string{"tomatoes", "salt", "basil"},
		Instructions: strPtr("Simmer for 20 minutes, then blend."),
	}
}

func upload(name string, size int) *types.Upload {
	return &types.Upload{
		Name:    name,
		Size:    int64(size),
		Content: bytes.NewReader(bytes.Repeat([]byte("x"), size)),
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, service.StatusOf(err), "error: %v", err)
}
