package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one connection or transaction
type Store struct {
	db          *gorm.DB
	Users       *UserRepository
	Recipes     *RecipeRepository
	Subscribers *SubscriberRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Recipes:     NewRecipeRepository(db),
		Subscribers: NewSubscriberRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// A non-nil error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
