// Package quota implements the rolling hourly/daily call budget that
// protects the metered upstream. The tracker only reports whether the
// next call would exceed a ceiling; it never blocks cache hits or
// local fallbacks, which are free.
package quota

import (
	"context"

	"helphive-gateway/internal/metrics"
	"helphive-gateway/internal/state"
	"helphive-gateway/pkg/logging/logging"

	"go.uber.org/zap"
)

const (
	DefaultMaxPerHour = 10
	DefaultMaxPerDay  = 100
)

// Tracker checks and records upstream call usage against configured
// ceilings. All state access is serialized by the state manager.
type Tracker struct {
	mgr        *state.Manager
	maxPerHour int
	maxPerDay  int
}

func NewTracker(mgr *state.Manager, maxPerHour, maxPerDay int) *Tracker {
	if maxPerHour <= 0 {
		maxPerHour = DefaultMaxPerHour
	}
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxPerDay
	}
	return &Tracker{
		mgr:        mgr,
		maxPerHour: maxPerHour,
		maxPerDay:  maxPerDay,
	}
}

// Exceeded lazily resets any expired window, persists the reset, and
// reports whether either counter has reached its ceiling.
func (t *Tracker) Exceeded(ctx context.Context) bool {
	var exceeded bool
	var hourly, daily int

	t.mgr.Update(ctx, func(s *state.UsageState) {
		s.ResetExpiredWindows(t.mgr.Now())
		hourly, daily = s.HourlyCount, s.DailyCount
		exceeded = hourly >= t.maxPerHour || daily >= t.maxPerDay
	})

	if exceeded {
		metrics.QuotaExceededTotal.Inc()
		logging.L(ctx).Warn("quota_exceeded",
			zap.Int("hourly_count", hourly),
			zap.Int("daily_count", daily),
			zap.Int("max_per_hour", t.maxPerHour),
			zap.Int("max_per_day", t.maxPerDay),
		)
	}
	return exceeded
}

// Record increments both counters by one. Call only after a successful
// upstream round trip; cache hits and local fallbacks must not count.
func (t *Tracker) Record(ctx context.Context) {
	t.mgr.Update(ctx, func(s *state.UsageState) {
		s.ResetExpiredWindows(t.mgr.Now())
		s.HourlyCount++
		s.DailyCount++
	})
	metrics.UpstreamCallsTotal.Inc()
}

// Counts returns the current counters after applying lazy resets.
func (t *Tracker) Counts(ctx context.Context) (hourly, daily int) {
	t.mgr.Update(ctx, func(s *state.UsageState) {
		s.ResetExpiredWindows(t.mgr.Now())
		hourly, daily = s.HourlyCount, s.DailyCount
	})
	return hourly, daily
}

// Limits returns the configured ceilings.
func (t *Tracker) Limits() (maxPerHour, maxPerDay int) {
	return t.maxPerHour, t.maxPerDay
}
