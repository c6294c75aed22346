package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Store interface {
	SaveActivity(ctx context.Context, accountID int64, title, content string, timeBudgetSeconds int64) (models.Activity, error)
	Activity(ctx context.Context, id, accountID int64) (models.Activity, error)
	Activities(ctx context.Context, accountID int64, limit, offset int) ([]models.Activity, error)
	UpdateActivity(ctx context.Context, id, accountID int64, a models.Activity) (models.Activity, error)
	DeleteActivity(ctx context.Context, id, accountID int64) error
}

// Service exposes the owner-scoped activity CRUD. Every mutating call goes
// through a single store statement filtering by both id and account id.
type Service struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{log: log, store: store}
}

func (s *Service) Create(ctx context.Context, accountID int64, title, content string, timeBudgetSeconds int64) (models.Activity, error) {
	const op = "activity.Create"

	a, err := s.store.SaveActivity(ctx, accountID, title, content, timeBudgetSeconds)
	if err != nil {
		s.log.Error("failed to save activity", slog.String("op", op), sl.Err(err))
		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id, accountID int64) (models.Activity, error) {
	const op = "activity.Get"

	a, err := s.store.Activity(ctx, id, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrActivityNotFound) {
			return models.Activity{}, storage.ErrActivityNotFound
		}

		s.log.Error("failed to get activity", slog.String("op", op), sl.Err(err))
		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Service) List(ctx context.Context, accountID int64, limit, offset int) ([]models.Activity, error) {
	const op = "activity.List"

	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	activities, err := s.store.Activities(ctx, accountID, limit, offset)
	if err != nil {
		s.log.Error("failed to list activities", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return activities, nil
}

func (s *Service) Update(ctx context.Context, id, accountID int64, a models.Activity) (models.Activity, error) {
	const op = "activity.Update"

	updated, err := s.store.UpdateActivity(ctx, id, accountID, a)
	if err != nil {
		if errors.Is(err, storage.ErrActivityNotFound) {
			return models.Activity{}, storage.ErrActivityNotFound
		}

		s.log.Error("failed to update activity", slog.String("op", op), sl.Err(err))
		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, accountID int64) error {
	const op = "activity.Delete"

	if err := s.store.DeleteActivity(ctx, id, accountID); err != nil {
		if errors.Is(err, storage.ErrActivityNotFound) {
			return storage.ErrActivityNotFound
		}

		s.log.Error("failed to delete activity", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
