package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
)

type SubscriberService struct {
	store    *repository.Store
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSubscriberService(store *repository.Store) *SubscriberService {
	return &SubscriberService{
		store:    store,
		validate: validator.New(),
		log:      logger.Component("subscribers"),
	}
}

// Subscribe adds email to the weekly digest list
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email, err := s.checkEmail(email)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Subscribers.Exists(ctx, email)
	if err != nil {
		return nil, Internal("Subscription failed.", err)
	}
	if exists {
		return nil, Validation("Already Subscribed.")
	}

	sub := &models.Subscriber{Email: email}
	if err := s.store.Subscribers.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Validation("Already Subscribed.")
		}
		return nil, Internal("Subscription failed.", err)
	}

	s.log.Info().Str("email", email).Msg("Subscribed")
	return sub, nil
}

func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	email, err := s.checkEmail(email)
	if err != nil {
		return err
	}

	if err := s.store.Subscribers.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Conflict("This email is not registered yet.")
		}
		return Internal("Unsubscribe failed.", err)
	}

	s.log.Info().Str("email", email).Msg("Unsubscribed")
	return nil
}

func (s *SubscriberService) checkEmail(raw string) (string, error) {
	if raw == "" {
		return "", Validation("Provide email...")
	}
	email := normalizeEmail(raw)
	if err := s.validate.Var(email, "required,email"); err != nil {
		verr := Validation("Enter valid email address.")
		verr.Err = fmt.Errorf("validate email: %w", err)
		return "", verr
	}
	return email, nil
}
