package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
)

type SubscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create adds a subscriber. ErrDuplicate if the email is already present.
func (r *SubscriberRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscriber: %w", translate(err))
	}
	return nil
}

func (r *SubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check subscriber: %w", err)
	}
	return count > 0, nil
}

// DeleteByEmail removes a subscriber. ErrNotFound if none matched.
func (r *SubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.Subscriber{})
	if res.Error != nil {
		return fmt.Errorf("delete subscriber: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete subscriber: %w", ErrNotFound)
	}
	return nil
}

func (r *SubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subs, nil
}
