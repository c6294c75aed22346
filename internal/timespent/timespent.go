package timespent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type Store interface {
	SaveTimeSpent(ctx context.Context, activityID, accountID, seconds int64) (models.TimeSpent, error)
	TimeSpent(ctx context.Context, activityID, accountID int64) ([]models.TimeSpent, error)
}

// Service records and lists manual time entries. Ownership of the parent
// activity is enforced by the store in the same statement as the write.
type Service struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{log: log, store: store}
}

func (s *Service) Add(ctx context.Context, activityID, accountID, seconds int64) (models.TimeSpent, error) {
	const op = "timespent.Add"

	ts, err := s.store.SaveTimeSpent(ctx, activityID, accountID, seconds)
	if err != nil {
		if errors.Is(err, storage.ErrActivityNotFound) {
			return models.TimeSpent{}, storage.ErrActivityNotFound
		}

		s.log.Error("failed to save time spent", slog.String("op", op), sl.Err(err))
		return models.TimeSpent{}, fmt.Errorf("%s: %w", op, err)
	}

	return ts, nil
}

func (s *Service) ByActivity(ctx context.Context, activityID, accountID int64) ([]models.TimeSpent, error) {
	const op = "timespent.ByActivity"

	entries, err := s.store.TimeSpent(ctx, activityID, accountID)
	if err != nil {
		s.log.Error("failed to list time spent", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}
