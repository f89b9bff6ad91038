package quota

import (
	"context"
	"errors"
	"strconv"
	"time"

	"prepmate/internal/cache"
	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"go.uber.org/zap"
)

const (
	fieldCount    = "count"
	fieldExceeded = "exceeded"
)

// RedisTracker shares quota state between API instances. Counts use HINCRBY
// (with the day key TTL set in the same MULTI/EXEC)
// and the cooldown is a key whose Redis TTL is the retry delay. Cache errors
// are logged and treated as "not limited" so a Redis outage never blocks AI calls.
type RedisTracker struct {
	cache domain.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewRedisTracker(c domain.Cache, ttl time.Duration, opts ...Option) *RedisTracker {
	o := buildOptions(opts)
	return &RedisTracker{cache: c, ttl: ttl, now: o.now}
}

// DayKey is the hash holding one day's counters.
func DayKey(date string) string {
	return cache.GenerateCacheKey("ai", "quota", date)
}

// CooldownKey holds the single process-wide cooldown slot.
func CooldownKey() string {
	return cache.GenerateCacheKey("ai", "cooldown", "global")
}

func (r *RedisTracker) RecordRequest(ctx context.Context) int {
	key := DayKey(DateKey(r.now()))
	count, err := r.cache.HIncrByWithExpire(ctx, key, fieldCount, 1, r.ttl)
	if err != nil {
		logger.Get().Error("Failed to record AI request", zap.String("key", key), zap.Error(err))
		return 0
	}
	return int(count)
}

func (r *RedisTracker) IsRateLimited(ctx context.Context) bool {
	_, err := r.cache.Get(ctx, CooldownKey())
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Failed to read AI cooldown", zap.Error(err))
	}
	return false
}

func (r *RedisTracker) ActivateCooldown(ctx context.Context, retryAfterSeconds int) {
	key := CooldownKey()
	if retryAfterSeconds <= 0 {
		if err := r.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Failed to clear AI cooldown", zap.Error(err))
		}
		return
	}
	activatedAt := r.now().UTC().Format(time.RFC3339)
	if err := r.cache.Set(ctx, key, activatedAt, time.Duration(retryAfterSeconds)*time.Second); err != nil {
		logger.Get().Error("Failed to activate AI cooldown", zap.Int("retry_after_seconds", retryAfterSeconds), zap.Error(err))
	}
}

func (r *RedisTracker) IsDailyQuotaExceeded(ctx context.Context) bool {
	val, err := r.cache.HGet(ctx, DayKey(DateKey(r.now())), fieldExceeded)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read daily quota flag", zap.Error(err))
		}
		return false
	}
	return val == "1"
}

func (r *RedisTracker) MarkDailyQuotaExceeded(ctx context.Context) {
	key := DayKey(DateKey(r.now()))
	if err := r.cache.HSetWithExpire(ctx, key, fieldExceeded, "1", r.ttl); err != nil {
		logger.Get().Error("Failed to mark daily quota exceeded", zap.String("key", key), zap.Error(err))
	}
}

func (r *RedisTracker) Snapshot(ctx context.Context) domain.UsageSnapshot {
	date := DateKey(r.now())
	snap := domain.UsageSnapshot{Date: date, RateLimited: r.IsRateLimited(ctx)}

	fields, err := r.cache.HGetAll(ctx, DayKey(date))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read quota snapshot", zap.Error(err))
		}
		return snap
	}
	if n, err := strconv.Atoi(fields[fieldCount]); err == nil {
		snap.DailyRequests = n
	}
	snap.DailyQuotaExceeded = fields[fieldExceeded] == "1"
	return snap
}

var _ domain.QuotaTracker = (*RedisTracker)(nil)
