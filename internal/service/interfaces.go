package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// IAuthService defines password hashing and token operations
type IAuthService interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) bool
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the recipe workflows
type IRecipeService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in types.RecipeInput, thumbnail *types.Upload) (*models.Recipe, error)
	Update(ctx context.Context, recipeID, requesterID uuid.UUID, in types.RecipeInput, thumbnail *types.Upload) (*models.Recipe, error)
	Delete(ctx context.Context, recipeID, requesterID uuid.UUID) error
	Like(ctx context.Context, recipeID, userID uuid.UUID) error
	Unlike(ctx context.Context, recipeID, userID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context) ([]models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error)
	ListLikedBy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// IUserService defines the account workflows
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*types.LoginResponse, error)
	ChangeAvatar(ctx context.Context, userID uuid.UUID, avatar *types.Upload) (*models.User, error)
	EditProfile(ctx context.Context, userID uuid.UUID, req types.EditProfileRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, targetID, requesterID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// ISubscriberService defines newsletter subscription management
type ISubscriberService interface {
	Subscribe(ctx context.Context, email string) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Mailer delivers a single email
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error
}
