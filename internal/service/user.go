package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/storage"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const (
	// MaxAvatarSize is the largest accepted profile picture in bytes
	MaxAvatarSize     = 500_000
	MinPasswordLength = 6
)

const (
	msgUserNotFound       = "User not found."
	msgEmailExists        = "Email already exists."
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordTooShort   = "Password should be at least 6 characters."
)

type UserService struct {
	store *repository.Store
	files storage.FileStore
	auth  IAuthService
	log   zerolog.Logger
}

func NewUserService(store *repository.Store, files storage.FileStore, auth IAuthService) *UserService {
	return &UserService{
		store: store,
		files: files,
		auth:  auth,
		log:   logger.Component("users"),
	}
}

func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, Validation("Fill in all the fields")
	}

	email := normalizeEmail(req.Email)
	taken, err := s.store.Users.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, Internal("User registration failed", err)
	}
	if taken {
		return nil, Validation(msgEmailExists)
	}
	if len(strings.TrimSpace(req.Password)) < MinPasswordLength {
		return nil, Validation(msgPasswordTooShort)
	}
	if req.Password != req.Password2 {
		return nil, Validation("Passwords do not match")
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, Internal("User registration failed", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Validation(msgEmailExists)
		}
		return nil, Internal("User registration failed", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return user, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password give the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, Validation("Fill in all the fields.")
	}

	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Validation(msgInvalidCredentials)
		}
		return nil, Internal("Login failed. Please check your credentials", err)
	}
	if !s.auth.ComparePassword(user.PasswordHash, password) {
		return nil, Validation(msgInvalidCredentials)
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, Internal("Login failed. Please check your credentials", err)
	}
	return &types.LoginResponse{Token: token, ID: user.ID, Name: user.Name}, nil
}

// ChangeAvatar stores the new picture, points the user at it and then
// removes the old one. The returned user is read back after the write.
func (s *UserService) ChangeAvatar(ctx context.Context, userID uuid.UUID, avatar *types.Upload) (*models.User, error) {
	if avatar == nil {
		return nil, Validation("Please choose an image.")
	}
	if avatar.Size > MaxAvatarSize {
		return nil, Validation("Profile picture is too big. Should be less than 500kb.")
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(msgUserNotFound)
		}
		return nil, Internal("Avatar couldn't be changed.", err)
	}

	name, err := s.files.Save(ctx, avatar.Name, avatar.Content)
	if err != nil {
		return nil, Internal(msgFileUploadError, err)
	}

	var updated *models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.UpdateAvatar(ctx, userID, name); err != nil {
			return err
		}
		u, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		removeFile(ctx, s.files, s.log, name)
		return nil, Internal("Avatar couldn't be changed.", err)
	}

	removeFile(ctx, s.files, s.log, user.Avatar)
	return updated, nil
}

func (s *UserService) EditProfile(ctx context.Context, userID uuid.UUID, req types.EditProfileRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.CurrentPassword == "" {
		return nil, Validation("Fill in all fields.")
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Forbidden(msgUserNotFound)
		}
		return nil, Internal("Couldn't update profile.", err)
	}

	email := normalizeEmail(req.Email)
	taken, err := s.store.Users.EmailTaken(ctx, email, userID)
	if err != nil {
		return nil, Internal("Couldn't update profile.", err)
	}
	if taken {
		return nil, Validation(msgEmailExists)
	}

	if !s.auth.ComparePassword(user.PasswordHash, req.CurrentPassword) {
		return nil, Validation("Invalid current password")
	}

	if req.NewPassword != "" {
		if len(strings.TrimSpace(req.NewPassword)) < MinPasswordLength {
			return nil, Validation(msgPasswordTooShort)
		}
		if req.NewPassword != req.ConfirmNewPassword {
			return nil, Validation("New passwords do not match.")
		}
		hash, err := s.auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, Internal("Couldn't update profile.", err)
		}
		user.PasswordHash = hash
	}

	user.Name = req.Name
	user.Email = email
	user.IsPureVeg = req.IsPureVeg

	if err := s.store.Users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Validation(msgEmailExists)
		}
		return nil, Internal("Couldn't update profile.", err)
	}
	return user, nil
}

// DeleteAccount removes a user together with their recipes and likes.
// Files are removed after the commit and failures there are only logged.
func (s *UserService) DeleteAccount(ctx context.Context, targetID, requesterID uuid.UUID) error {
	if targetID != requesterID {
		return Forbidden("You can only delete your own account.")
	}

	user, err := s.store.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("User not found")
		}
		return Internal("User couldn't be deleted.", err)
	}

	owned, err := s.store.Recipes.ListByOwner(ctx, targetID)
	if err != nil {
		return Internal("User couldn't be deleted.", err)
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Recipes.DeleteByOwner(ctx, targetID); err != nil {
			return err
		}
		if err := tx.Recipes.DeleteLikesByUser(ctx, targetID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, targetID)
	})
	if err != nil {
		return Internal("User couldn't be deleted.", err)
	}

	for _, recipe := range owned {
		removeFile(ctx, s.files, s.log, recipe.Thumbnail)
	}
	removeFile(ctx, s.files, s.log, user.Avatar)

	s.log.Info().Str("user_id", targetID.String()).Int("recipes", len(owned)).Msg("User deleted")
	return nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(msgUserNotFound)
		}
		return nil, Internal("Couldn't load user.", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, Internal("Couldn't load users.", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
