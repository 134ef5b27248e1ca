package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/repository"
)

// ReconcileService repairs the denormalized per-user recipe counter
type ReconcileService struct {
	store *repository.Store
	log   zerolog.Logger
}

func NewReconcileService(store *repository.Store) *ReconcileService {
	return &ReconcileService{
		store: store,
		log:   logger.Component("reconcile"),
	}
}

// Reconcile sets every drifted counter to the real number of recipes and
// returns how many users were corrected.
func (s *ReconcileService) Reconcile(ctx context.Context) (int, error) {
	drift, err := s.store.Users.FindCounterDrift(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, d := range drift {
		if err := s.store.Users.RecountRecipes(ctx, d.UserID); err != nil {
			return fixed, fmt.Errorf("fix counter for %s: %w", d.UserID, err)
		}
		s.log.Warn().Str("user_id", d.UserID.String()).Int("stored", d.Stored).Int("actual", d.Actual).Msg("Corrected recipe counter")
		fixed++
	}

	metrics.RecordReconciled(fixed)
	return fixed, nil
}

// Run adapts Reconcile to a scheduled job
func (s *ReconcileService) Run(ctx context.Context) error {
	_, err := s.Reconcile(ctx)
	return err
}
