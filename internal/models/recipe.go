package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinDescriptionLength is the shortest description a recipe may carry
const MinDescriptionLength = 12

type Recipe struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Ingredients  StringList  `gorm:"not null" json:"ingredients"`
	Instructions string      `gorm:"type:text;not null" json:"instructions"`
	Thumbnail    string      `gorm:"size:255;not null" json:"thumbnail"`
	CreatedBy    uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"createdBy"`
	IsPureVeg    bool        `gorm:"not null;default:false" json:"isPureVeg"`
	Likes        []uuid.UUID `gorm:"-" json:"likes"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"index" json:"updatedAt"`
}

// BeforeCreate assigns an ID when the caller did not
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// LikedBy reports whether userID is in the recipe's like set
func (r *Recipe) LikedBy(userID uuid.UUID) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
