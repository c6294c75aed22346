// Package redis implements the timer cache store. One key per activity id,
// holding the start timestamp in nanoseconds since epoch; a key exists iff
// the timer is running.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"scheduler_service/internal/storage"
)

type CacheRepo struct {
	client *redis.Client
}

func New(ctx context.Context, addr, pass string, db int) (*CacheRepo, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &CacheRepo{
		client: client,
	}, nil
}

func timerKey(activityID int64) string {
	return fmt.Sprintf("timer:%d", activityID)
}

// StartTimer records the start timestamp with SETNX. It returns false when a
// timer is already running, leaving the recorded timestamp untouched.
func (r *CacheRepo) StartTimer(ctx context.Context, activityID int64, start time.Time) (bool, error) {
	const op = "storage.redis.StartTimer"

	started, err := r.client.SetNX(ctx, timerKey(activityID), start.UnixNano(), 0).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return started, nil
}

// TimerStart returns the recorded start timestamp, or ErrTimerNotRunning
// when no entry exists (never started, stopped, or evicted).
func (r *CacheRepo) TimerStart(ctx context.Context, activityID int64) (time.Time, error) {
	const op = "storage.redis.TimerStart"

	val, err := r.client.Get(ctx, timerKey(activityID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, storage.ErrTimerNotRunning
		}

		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: corrupt timer value %q: %w", op, val, err)
	}

	return time.Unix(0, nanos), nil
}

func (r *CacheRepo) StopTimer(ctx context.Context, activityID int64) error {
	const op = "storage.redis.StopTimer"

	if err := r.client.Del(ctx, timerKey(activityID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *CacheRepo) Close() {
	r.client.Close()
}
