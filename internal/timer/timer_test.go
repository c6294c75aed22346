package timer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type fakeStore struct {
	activities map[int64]models.Activity
	storeErr   error
}

func (s *fakeStore) ActivityOwned(_ context.Context, id, accountID int64) (bool, error) {
	a, ok := s.activities[id]
	return ok && a.AccountID == accountID, nil
}

func (s *fakeStore) ApplyElapsed(_ context.Context, id, accountID, elapsedSeconds int64) (models.Activity, error) {
	if s.storeErr != nil {
		return models.Activity{}, s.storeErr
	}

	a, ok := s.activities[id]
	if !ok || a.AccountID != accountID {
		return models.Activity{}, storage.ErrActivityNotFound
	}

	a.TimeBudgetSeconds -= elapsedSeconds
	s.activities[id] = a

	return a, nil
}

type fakeCache struct {
	entries map[int64]time.Time
}

func (c *fakeCache) StartTimer(_ context.Context, activityID int64, start time.Time) (bool, error) {
	if _, ok := c.entries[activityID]; ok {
		return false, nil
	}

	c.entries[activityID] = start

	return true, nil
}

func (c *fakeCache) TimerStart(_ context.Context, activityID int64) (time.Time, error) {
	start, ok := c.entries[activityID]
	if !ok {
		return time.Time{}, storage.ErrTimerNotRunning
	}

	return start, nil
}

func (c *fakeCache) StopTimer(_ context.Context, activityID int64) error {
	delete(c.entries, activityID)
	return nil
}

func newTestTimer(store *fakeStore, cache *fakeCache, now time.Time) *Timer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t := New(log, store, cache)
	t.now = func() time.Time { return now }

	return t
}

func testStore() *fakeStore {
	return &fakeStore{
		activities: map[int64]models.Activity{
			1: {ID: 1, AccountID: 10, Title: "reading", TimeBudgetSeconds: 3600},
		},
	}
}

func TestStart_Fresh(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}
	now := time.Now()

	elapsed, err := newTestTimer(store, cache, now).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(0), elapsed)
	assert.Equal(t, now, cache.entries[1])
}

func TestStart_IdempotentKeepsOriginalStart(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}
	start := time.Now()

	_, err := newTestTimer(store, cache, start).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	// Second start five seconds later must report elapsed time against the
	// recorded start, not reset it.
	elapsed, err := newTestTimer(store, cache, start.Add(5*time.Second)).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(5), elapsed)
	assert.Equal(t, start, cache.entries[1])
}

func TestStart_NotOwnerWritesNoEntry(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}

	_, err := newTestTimer(store, cache, time.Now()).Start(context.Background(), 1, 99)
	assert.ErrorIs(t, err, storage.ErrActivityNotFound)
	assert.Empty(t, cache.entries)
}

func TestStart_UnknownActivity(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}

	_, err := newTestTimer(store, cache, time.Now()).Start(context.Background(), 42, 10)
	assert.ErrorIs(t, err, storage.ErrActivityNotFound)
	assert.Empty(t, cache.entries)
}

func TestStop_WithoutStart(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}

	_, _, err := newTestTimer(store, cache, time.Now()).Stop(context.Background(), 1, 10)
	assert.ErrorIs(t, err, storage.ErrTimerNotRunning)
}

func TestStop_DecrementsBudget(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}
	start := time.Now()

	_, err := newTestTimer(store, cache, start).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	activity, elapsed, err := newTestTimer(store, cache, start.Add(60*time.Second)).
		Stop(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(60), elapsed)
	assert.Equal(t, int64(3540), activity.TimeBudgetSeconds)
	assert.Empty(t, cache.entries, "entry must be deleted after a successful stop")
}

func TestStop_TruncatesTowardZero(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}
	start := time.Now()

	_, err := newTestTimer(store, cache, start).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	_, elapsed, err := newTestTimer(store, cache, start.Add(1900*time.Millisecond)).
		Stop(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), elapsed)
}

func TestStop_BudgetMayGoNegative(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{}}
	start := time.Now()

	_, err := newTestTimer(store, cache, start).Start(context.Background(), 1, 10)
	require.NoError(t, err)

	activity, _, err := newTestTimer(store, cache, start.Add(2*time.Hour)).
		Stop(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(3600-7200), activity.TimeBudgetSeconds)
}

func TestStop_KeepsEntryWhenUpdateFails(t *testing.T) {
	t.Parallel()

	store := testStore()
	store.storeErr = errors.New("connection lost")
	cache := &fakeCache{entries: map[int64]time.Time{1: time.Now().Add(-time.Minute)}}

	_, _, err := newTestTimer(store, cache, time.Now()).Stop(context.Background(), 1, 10)
	require.Error(t, err)

	assert.Contains(t, cache.entries, int64(1),
		"a failed store update must not lose the running measurement")
}

func TestStop_ForeignOwnerReadsAsNotFound(t *testing.T) {
	t.Parallel()

	store := testStore()
	cache := &fakeCache{entries: map[int64]time.Time{1: time.Now().Add(-time.Minute)}}

	_, _, err := newTestTimer(store, cache, time.Now()).Stop(context.Background(), 1, 99)
	assert.ErrorIs(t, err, storage.ErrActivityNotFound)
	assert.Contains(t, cache.entries, int64(1))
}
