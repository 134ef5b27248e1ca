package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, translate(err))
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err))
	}
	return &user, nil
}

// EmailTaken reports whether another user already uses email.
// Pass uuid.Nil to check against every user.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile writes the editable profile columns
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("name", "email", "is_pure_veg", "password", "updated_at").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", user.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return fmt.Errorf("update avatar %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update avatar %s: %w", id, ErrNotFound)
	}
	return nil
}

// IncrementRecipes atomically adds one to the owner's recipe counter
func (r *UserRepository) IncrementRecipes(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("recipes", gorm.Expr("recipes + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment recipes %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment recipes %s: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementRecipes atomically subtracts one, never going below zero
func (r *UserRepository) DecrementRecipes(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ? AND recipes > 0", id).
		UpdateColumn("recipes", gorm.Expr("recipes - ?", 1))
	if res.Error != nil {
		return fmt.Errorf("decrement recipes %s: %w", id, res.Error)
	}
	return nil
}

// RecountRecipes sets the counter to the live number of owned recipes in a
// single statement, so a concurrent create is not lost.
func (r *UserRepository) RecountRecipes(ctx context.Context, id uuid.UUID) error {
	count := r.db.Model(&models.Recipe{}).Select("COUNT(*)").Where("created_by = ?", id)
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("recipes", count)
	if res.Error != nil {
		return fmt.Errorf("recount recipes %s: %w", id, res.Error)
	}
	return nil
}

// CounterDrift is a user whose stored recipe counter disagrees with the table
type CounterDrift struct {
	UserID uuid.UUID
	Stored int
	Actual int
}

// FindCounterDrift lists every user whose counter differs from the real count
func (r *UserRepository) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	var rows []struct {
		ID      uuid.UUID
		Recipes int
		Actual  int
	}
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id AS id, u.recipes AS recipes, COUNT(r.id) AS actual").
		Joins("LEFT JOIN recipes AS r ON r.created_by = u.id").
		Group("u.id, u.recipes").
		Having("u.recipes <> COUNT(r.id)").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find counter drift: %w", err)
	}

	drift := make([]CounterDrift, 0, len(rows))
	for _, row := range rows {
		drift = append(drift, CounterDrift{UserID: row.ID, Stored: row.Recipes, Actual: row.Actual})
	}
	return drift, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	return nil
}
