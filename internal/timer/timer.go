// Package timer implements the wall-clock measurement for one activity. Two
// states per activity: stopped (no cache entry) and running (entry holding
// the start timestamp). A lost or evicted entry reads as stopped; the
// persistent budget is the store of record.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type ActivityStore interface {
	ActivityOwned(ctx context.Context, id, accountID int64) (bool, error)
	ApplyElapsed(ctx context.Context, id, accountID, elapsedSeconds int64) (models.Activity, error)
}

type Cache interface {
	StartTimer(ctx context.Context, activityID int64, start time.Time) (bool, error)
	TimerStart(ctx context.Context, activityID int64) (time.Time, error)
	StopTimer(ctx context.Context, activityID int64) error
}

type Timer struct {
	log   *slog.Logger
	store ActivityStore
	cache Cache
	now   func() time.Time
}

func New(log *slog.Logger, store ActivityStore, cache Cache) *Timer {
	return &Timer{
		log:   log,
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

// Start begins measuring for the activity and returns the elapsed whole
// seconds so far. Repeated calls are idempotent: the recorded start is kept
// and the elapsed time against it is returned, never a reset. The write uses
// set-if-not-exists, so two concurrent starts cannot overwrite each other.
func (t *Timer) Start(ctx context.Context, activityID, accountID int64) (int64, error) {
	const op = "timer.Start"

	log := t.log.With(slog.String("op", op), slog.Int64("activity_id", activityID))

	owned, err := t.store.ActivityOwned(ctx, activityID, accountID)
	if err != nil {
		log.Error("ownership check failed", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !owned {
		// Wrong owner and missing activity are reported identically.
		return 0, storage.ErrActivityNotFound
	}

	now := t.now()

	// Two attempts: if the entry vanishes between the failed SETNX and the
	// read (a concurrent stop), claim the key again.
	for attempt := 0; attempt < 2; attempt++ {
		started, err := t.cache.StartTimer(ctx, activityID, now)
		if err != nil {
			log.Error("failed to write timer entry", sl.Err(err))
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		if started {
			log.Info("timer started")
			return 0, nil
		}

		start, err := t.cache.TimerStart(ctx, activityID)
		if err != nil {
			if errors.Is(err, storage.ErrTimerNotRunning) {
				continue
			}

			log.Error("failed to read timer entry", sl.Err(err))
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("timer already running")
		return elapsedSeconds(start, now), nil
	}

	return 0, fmt.Errorf("%s: timer entry keeps disappearing", op)
}

// Stop ends the measurement, decrements the activity's time budget by the
// elapsed whole seconds and returns the updated activity. The cache entry is
// deleted only after the store commit succeeds, so a failed update keeps the
// running measurement.
func (t *Timer) Stop(ctx context.Context, activityID, accountID int64) (models.Activity, int64, error) {
	const op = "timer.Stop"

	log := t.log.With(slog.String("op", op), slog.Int64("activity_id", activityID))

	start, err := t.cache.TimerStart(ctx, activityID)
	if err != nil {
		if errors.Is(err, storage.ErrTimerNotRunning) {
			return models.Activity{}, 0, storage.ErrTimerNotRunning
		}

		log.Error("failed to read timer entry", sl.Err(err))
		return models.Activity{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	elapsed := elapsedSeconds(start, t.now())

	activity, err := t.store.ApplyElapsed(ctx, activityID, accountID, elapsed)
	if err != nil {
		if errors.Is(err, storage.ErrActivityNotFound) {
			return models.Activity{}, 0, storage.ErrActivityNotFound
		}

		log.Error("failed to apply elapsed time", sl.Err(err))
		return models.Activity{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := t.cache.StopTimer(ctx, activityID); err != nil {
		log.Error("failed to delete timer entry", sl.Err(err))
		return models.Activity{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("timer stopped", slog.Int64("elapsed_seconds", elapsed))

	return activity, elapsed, nil
}

// elapsedSeconds truncates toward zero; sub-second remainders are dropped.
func elapsedSeconds(start, now time.Time) int64 {
	return now.Sub(start).Nanoseconds() / int64(time.Second)
}
