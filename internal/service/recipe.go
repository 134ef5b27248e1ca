package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/storage"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// MaxThumbnailSize is the largest accepted recipe thumbnail in bytes
const MaxThumbnailSize = 2_000_000

const (
	msgRecipeNotFound    = "Recipe not found."
	msgRefresh           = "Unable to perform action please refresh the page."
	msgDescriptionShort  = "Description is too short!"
	msgThumbnailTooBig   = "Thumbnail too big. File should be less than 2Mb"
	msgFileUploadError   = "File upload error"
	msgRecipeNotDeleted  = "Recipe couldn't be deleted."
	msgRecipeNotUpdated  = "Couldn't update recipe."
	msgRecipeNotCreated  = "Recipe couldn't be created."
	msgNotAllowedUpdate  = "You are not allowed to update this recipe."
	msgAlreadyLiked      = "You have already liked this recipe."
	msgCreateFieldsEmpty = "Fill in all the fields and choose thumbnail."
	msgUpdateFieldsEmpty = "Fill in all the fields."
)

// RecipeService handles recipe operations
type RecipeService struct {
	store *repository.Store
	files storage.FileStore
	log   zerolog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store *repository.Store, files storage.FileStore) *RecipeService {
	return &RecipeService{
		store: store,
		files: files,
		log:   logger.Component("recipes"),
	}
}

// Create stores the thumbnail, then inserts the recipe and bumps the owner's
// counter in one transaction. The stored file is removed if that fails.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, in types.RecipeInput, thumbnail *types.Upload) (*models.Recipe, error) {
	if blank(in.Title) || blank(in.Description) || blank(in.Instructions) || in.Ingredients == nil || thumbnail == nil {
		return nil, Validation(msgCreateFieldsEmpty)
	}
	if utf8.RuneCountInString(*in.Description) < models.MinDescriptionLength {
		return nil, Validation(msgDescriptionShort)
	}
	if thumbnail.Size > MaxThumbnailSize {
		return nil, Validation(msgThumbnailTooBig)
	}

	name, err := s.files.Save(ctx, thumbnail.Name, thumbnail.Content)
	if err != nil {
		return nil, Internal(msgFileUploadError, err)
	}

	recipe := &models.Recipe{
		Title:        *in.Title,
		Description:  *in.Description,
		Ingredients:  models.StringList(in.Ingredients),
		Instructions: *in.Instructions,
		Thumbnail:    name,
		CreatedBy:    ownerID,
		IsPureVeg:    in.IsPureVeg,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Recipes.Create(ctx, recipe); err != nil {
			return err
		}
		return tx.Users.IncrementRecipes(ctx, ownerID)
	})
	if err != nil {
		s.discard(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(msgUserNotFound)
		}
		return nil, Internal(msgRecipeNotCreated, err)
	}

	s.log.Info().Str("recipe_id", recipe.ID.String()).Str("owner_id", ownerID.String()).Msg("Recipe created")
	return recipe, nil
}

// Update applies in to the recipe. Only the owner may update. A new thumbnail
// is stored before the write and the previous one removed after it.
func (s *RecipeService) Update(ctx context.Context, recipeID, requesterID uuid.UUID, in types.RecipeInput, thumbnail *types.Upload) (*models.Recipe, error) {
	recipe, err := s.store.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, s.lookupError(err, msgRecipeNotFound)
	}
	if recipe.CreatedBy != requesterID {
		return nil, Forbidden(msgNotAllowedUpdate)
	}

	if blank(in.Title) || blank(in.Instructions) {
		return nil, Validation(msgUpdateFieldsEmpty)
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) < models.MinDescriptionLength {
		return nil, Validation(msgDescriptionShort)
	}
	if thumbnail != nil && thumbnail.Size > MaxThumbnailSize {
		return nil, Validation(msgThumbnailTooBig)
	}

	recipe.Title = *in.Title
	recipe.Instructions = *in.Instructions
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Ingredients != nil {
		recipe.Ingredients = models.StringList(in.Ingredients)
	}
	recipe.IsPureVeg = in.IsPureVeg

	previous := recipe.Thumbnail
	var replacement string
	if thumbnail != nil {
		replacement, err = s.files.Save(ctx, thumbnail.Name, thumbnail.Content)
		if err != nil {
			return nil, Internal(msgFileUploadError, err)
		}
		recipe.Thumbnail = replacement
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Recipes.Update(ctx, recipe)
	})
	if err != nil {
		if replacement != "" {
			s.discard(ctx, replacement)
		}
		return nil, s.lookupError(err, msgRecipeNotUpdated)
	}

	if replacement != "" && previous != "" {
		s.discard(ctx, previous)
	}
	return recipe, nil
}

// Delete removes the recipe, its likes and its thumbnail, and decrements the
// owner's counter. A failed file delete, including a missing file, rolls the
// record delete back.
func (s *RecipeService) Delete(ctx context.Context, recipeID, requesterID uuid.UUID) error {
	recipe, err := s.store.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return s.lookupError(err, msgRecipeNotFound)
	}
	if recipe.CreatedBy != requesterID {
		return Forbidden(msgRecipeNotDeleted)
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Recipes.Delete(ctx, recipe.ID); err != nil {
			return err
		}
		if err := tx.Users.DecrementRecipes(ctx, recipe.CreatedBy); err != nil {
			return err
		}
		if err := s.files.Delete(ctx, recipe.Thumbnail); err != nil {
			return fmt.Errorf("delete thumbnail %s: %w", recipe.Thumbnail, err)
		}
		return nil
	})
	if err != nil {
		return s.lookupError(err, msgRecipeNotDeleted)
	}

	s.log.Info().Str("recipe_id", recipe.ID.String()).Msg("Recipe deleted")
	return nil
}

// Like adds userID to the recipe's like set
func (s *RecipeService) Like(ctx context.Context, recipeID, userID uuid.UUID) error {
	recipe, err := s.store.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return s.lookupError(err, msgRefresh)
	}
	if recipe.LikedBy(userID) {
		return Conflict(msgAlreadyLiked)
	}

	if err := s.store.Recipes.AddLike(ctx, recipeID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Conflict(msgAlreadyLiked)
		}
		return Internal(msgRefresh, err)
	}
	return nil
}

// Unlike removes userID from the recipe's like set
func (s *RecipeService) Unlike(ctx context.Context, recipeID, userID uuid.UUID) error {
	recipe, err := s.store.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return s.lookupError(err, msgRefresh)
	}
	if !recipe.LikedBy(userID) {
		return Conflict(msgRefresh)
	}

	if err := s.store.Recipes.RemoveLike(ctx, recipeID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Conflict(msgRefresh)
		}
		return Internal(msgRefresh, err)
	}
	return nil
}

func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.store.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, msgRecipeNotFound)
	}
	return recipe, nil
}

func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.store.Recipes.List(ctx)
	if err != nil {
		return nil, Internal("Couldn't load recipes.", err)
	}
	return recipes, nil
}

func (s *RecipeService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error) {
	recipes, err := s.store.Recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal("Couldn't load recipes.", err)
	}
	return recipes, nil
}

// ListLikedBy returns the favourites of userID
func (s *RecipeService) ListLikedBy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	recipes, err := s.store.Recipes.ListLikedBy(ctx, userID)
	if err != nil {
		return nil, Internal("Couldn't load recipes.", err)
	}
	return recipes, nil
}

// lookupError turns a missing row into a 404 carrying notFoundMsg and
// anything else into a 500 carrying the same message.
func (s *RecipeService) lookupError(err error, notFoundMsg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(notFoundMsg)
	}
	return Internal(notFoundMsg, err)
}

// discard removes a stored file outside the request's lifetime; failures are logged.
func (s *RecipeService) discard(ctx context.Context, name string) {
	removeFile(ctx, s.files, s.log, name)
}

func removeFile(ctx context.Context, files storage.FileStore, log zerolog.Logger, name string) {
	if name == "" {
		return
	}
	if err := files.Delete(context.WithoutCancel(ctx), name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warn().Err(err).Str("file", name).Msg("Failed to remove stored file")
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
