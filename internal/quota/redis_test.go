package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepmate/internal/adapter"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisTracker_RecordRequest(t *testing.T) {
	db, mock := redismock.NewClientMock()
	clock := newFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	tracker := NewRedisTracker(adapter.NewRedisCacheAdapter(db), time.Hour, WithClock(clock.Now))
	ctx := context.Background()
	key := DayKey("2025-03-10")

	t.Run("CountAndExpiryInOneTransaction", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectHIncrBy(key, "count", 1).SetVal(3)
		mock.ExpectExpire(key, time.Hour).SetVal(true)
		mock.ExpectTxPipelineExec()
		assert.Equal(t, 3, tracker.RecordRequest(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		tracker := NewRedisTracker(adapter.NewRedisCacheAdapter(db), time.Hour, WithClock(clock.Now))
		mock.ExpectTxPipeline()
		mock.ExpectHIncrBy(key, "count", 1).SetErr(errors.New("connection refused"))
		assert.Equal(t, 0, tracker.RecordRequest(ctx))
	})
}

func TestRedisTracker_Cooldown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	clock := newFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	tracker := NewRedisTracker(adapter.NewRedisCacheAdapter(db), time.Hour, WithClock(clock.Now))
	ctx := context.Background()
	key := CooldownKey()

	t.Run("Activate", func(t *testing.T) {
		mock.ExpectSet(key, "2025-03-10T08:00:00Z", 17*time.Second).SetVal("OK")
		tracker.ActivateCooldown(ctx, 17)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ActivateWithZeroClears", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(1)
		tracker.ActivateCooldown(ctx, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Limited", func(t *testing.T) {
		mock.ExpectGet(key).SetVal("2025-03-10T08:00:00Z")
		assert.True(t, tracker.IsRateLimited(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expired", func(t *testing.T) {
		mock.ExpectGet(key).RedisNil()
		assert.False(t, tracker.IsRateLimited(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisErrorFailsOpen", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(errors.New("timeout"))
		assert.False(t, tracker.IsRateLimited(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisTracker_DailyQuota(t *testing.T) {
	db, mock := redismock.NewClientMock()
	clock := newFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	tracker := NewRedisTracker(adapter.NewRedisCacheAdapter(db), time.Hour, WithClock(clock.Now))
	ctx := context.Background()
	key := DayKey("2025-03-10")

	mock.ExpectHGet(key, "exceeded").RedisNil()
	assert.False(t, tracker.IsDailyQuotaExceeded(ctx))

	mock.ExpectTxPipeline()
	mock.ExpectHSet(key, "exceeded", "1").SetVal(1)
	mock.ExpectExpire(key, time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()
	tracker.MarkDailyQuotaExceeded(ctx)

	mock.ExpectHGet(key, "exceeded").SetVal("1")
	assert.True(t, tracker.IsDailyQuotaExceeded(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisTracker_Snapshot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	clock := newFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	tracker := NewRedisTracker(adapter.NewRedisCacheAdapter(db), time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	mock.ExpectGet(CooldownKey()).RedisNil()
	mock.ExpectHGetAll(DayKey("2025-03-10")).SetVal(map[string]string{"count": "42", "exceeded": "1"})

	snap := tracker.Snapshot(ctx)
	assert.Equal(t, "2025-03-10", snap.Date)
	assert.Equal(t, 42, snap.DailyRequests)
	assert.True(t, snap.DailyQuotaExceeded)
	assert.False(t, snap.RateLimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}
