// Package quota tracks upstream model usage: per-day request counts, the
// daily-quota flag and a single rate-limit cooldown slot.
package quota

import (
	"context"
	"sync"
	"time"

	"prepmate/internal/domain"
)

const dateLayout = "2006-01-02"

// Option configures a tracker.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DateKey is the UTC calendar day a request is accounted to.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

type dayRecord struct {
	count     int
	exceeded  bool
	expiresAt time.Time
}

type cooldown struct {
	activatedAt time.Time
	retryAfter  time.Duration
}

// MemoryTracker is a process-local domain.QuotaTracker. A day record expires
// ttl after its last write and then reads as absent.
type MemoryTracker struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	days     map[string]*dayRecord
	cooldown *cooldown
}

func NewMemoryTracker(ttl time.Duration, opts ...Option) *MemoryTracker {
	o := buildOptions(opts)
	return &MemoryTracker{
		ttl:  ttl,
		now:  o.now,
		days: make(map[string]*dayRecord),
	}
}

// live returns today's record if it has not expired. Callers hold mu.
func (m *MemoryTracker) live(now time.Time) *dayRecord {
	key := DateKey(now)
	rec, ok := m.days[key]
	if !ok {
		return nil
	}
	if m.ttl > 0 && !now.Before(rec.expiresAt) {
		delete(m.days, key)
		return nil
	}
	return rec
}

// touch returns today's record, creating it if needed, and refreshes its expiry.
// Records for other days are dropped. Callers hold mu.
func (m *MemoryTracker) touch(now time.Time) *dayRecord {
	rec := m.live(now)
	if rec == nil {
		rec = &dayRecord{}
		key := DateKey(now)
		for k := range m.days {
			if k != key {
				delete(m.days, k)
			}
		}
		m.days[key] = rec
	}
	rec.expiresAt = now.Add(m.ttl)
	return rec
}

func (m *MemoryTracker) RecordRequest(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.touch(m.now())
	rec.count++
	return rec.count
}

func (m *MemoryTracker) IsRateLimited(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rateLimited(m.now())
}

func (m *MemoryTracker) rateLimited(now time.Time) bool {
	if m.cooldown == nil {
		return false
	}
	return now.Before(m.cooldown.activatedAt.Add(m.cooldown.retryAfter))
}

func (m *MemoryTracker) ActivateCooldown(_ context.Context, retryAfterSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldown = &cooldown{
		activatedAt: m.now(),
		retryAfter:  time.Duration(retryAfterSeconds) * time.Second,
	}
}

func (m *MemoryTracker) IsDailyQuotaExceeded(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.live(m.now())
	return rec != nil && rec.exceeded
}

func (m *MemoryTracker) MarkDailyQuotaExceeded(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(m.now()).exceeded = true
}

func (m *MemoryTracker) Snapshot(_ context.Context) domain.UsageSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	snap := domain.UsageSnapshot{
		Date:        DateKey(now),
		RateLimited: m.rateLimited(now),
	}
	if rec := m.live(now); rec != nil {
		snap.DailyRequests = rec.count
		snap.DailyQuotaExceeded = rec.exceeded
	}
	return snap
}

var _ domain.QuotaTracker = (*MemoryTracker)(nil)
