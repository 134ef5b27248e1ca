package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", translate(err))
	}
	if recipe.Likes == nil {
		recipe.Likes = []uuid.UUID{}
	}
	return nil
}

// GetByID loads a recipe together with its like set
func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, translate(err))
	}
	recipes := []models.Recipe{recipe}
	if err := r.loadLikes(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// List returns every recipe, most recently updated first
func (r *RecipeRepository) List(ctx context.Context) ([]models.Recipe, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *RecipeRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Recipe, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("created_by = ?", owner))
}

// ListLikedBy returns the recipes whose like set contains userID
func (r *RecipeRepository) ListLikedBy(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&models.RecipeLike{}).Select("recipe_id").Where("user_id = ?", userID))
	return r.find(ctx, q)
}

// ListRecent returns up to limit recipes by most recent update
func (r *RecipeRepository) ListRecent(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).Order("updated_at desc").Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recent recipes: %w", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) find(ctx context.Context, q *gorm.DB) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := q.Order("updated_at desc").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if err := r.loadLikes(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// loadLikes fills the Likes field of each recipe in place, oldest like first
func (r *RecipeRepository) loadLikes(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Likes = []uuid.UUID{}
	}

	var likes []models.RecipeLike
	if err := r.db.WithContext(ctx).Where("recipe_id IN ?", ids).
		Order("created_at asc").Find(&likes).Error; err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for _, like := range likes {
		i := index[like.RecipeID]
		recipes[i].Likes = append(recipes[i].Likes, like.UserID)
	}
	return nil
}

// Update writes the mutable columns. CreatedBy is never touched.
func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	res := r.db.WithContext(ctx).Model(recipe).
		Select("title", "description", "ingredients", "instructions", "thumbnail", "is_pure_veg", "updated_at").
		Updates(recipe)
	if res.Error != nil {
		return fmt.Errorf("update recipe %s: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update recipe %s: %w", recipe.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a recipe and its like set
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&models.RecipeLike{}).Error; err != nil {
		return fmt.Errorf("delete likes of recipe %s: %w", id, err)
	}
	res := db.Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete recipe %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByOwner removes every recipe owned by owner, with their likes
func (r *RecipeRepository) DeleteByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	owned := r.db.Model(&models.Recipe{}).Select("id").Where("created_by = ?", owner)
	if err := db.Where("recipe_id IN (?)", owned).Delete(&models.RecipeLike{}).Error; err != nil {
		return 0, fmt.Errorf("delete likes of recipes owned by %s: %w", owner, err)
	}
	res := db.Where("created_by = ?", owner).Delete(&models.Recipe{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete recipes owned by %s: %w", owner, res.Error)
	}
	return res.RowsAffected, nil
}

// AddLike inserts userID into the recipe's like set. ErrDuplicate when the
// pair already exists.
func (r *RecipeRepository) AddLike(ctx context.Context, recipeID, userID uuid.UUID) error {
	like := models.RecipeLike{RecipeID: recipeID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		return fmt.Errorf("add like: %w", translate(err))
	}
	return r.touch(ctx, recipeID)
}

// RemoveLike deletes userID from the like set. ErrNotFound when absent.
func (r *RecipeRepository) RemoveLike(ctx context.Context, recipeID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.RecipeLike{})
	if res.Error != nil {
		return fmt.Errorf("remove like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("remove like: %w", ErrNotFound)
	}
	return r.touch(ctx, recipeID)
}

// DeleteLikesByUser removes a user from every like set
func (r *RecipeRepository) DeleteLikesByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RecipeLike{}).Error; err != nil {
		return fmt.Errorf("delete likes by %s: %w", userID, err)
	}
	return nil
}

func (r *RecipeRepository) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("created_by = ?", owner).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count recipes of %s: %w", owner, err)
	}
	return n, nil
}

func (r *RecipeRepository) touch(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("touch recipe %s: %w", id, err)
	}
	return nil
}
