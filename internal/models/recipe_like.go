package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipeLike is one member of a recipe's like set. The composite unique
// index keeps a user from appearing twice in the same set.
type RecipeLike struct {
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primarykey;uniqueIndex:idx_recipe_likes_pair,priority:1" json:"recipeId"`
	UserID    uuid.UUID `gorm:"type:varchar(36);primarykey;uniqueIndex:idx_recipe_likes_pair,priority:2;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (RecipeLike) TableName() string {
	return "recipe_likes"
}
