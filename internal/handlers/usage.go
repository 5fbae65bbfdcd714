package handlers

import (
	"net/http"

	"helphive-gateway/internal/cache"
	"helphive-gateway/internal/quota"
	"helphive-gateway/internal/state"
	"helphive-gateway/pkg/logging/logging"

	"go.uber.org/zap"
)

// UsageHandler exposes the quota/cache state for observability and an
// explicit reset for operators.
type UsageHandler struct {
	Tracker *quota.Tracker
	Cache   *cache.ResponseCache
	Manager *state.Manager
}

func NewUsageHandler(t *quota.Tracker, c *cache.ResponseCache, m *state.Manager) *UsageHandler {
	return &UsageHandler{Tracker: t, Cache: c, Manager: m}
}

type usageResponse struct {
	HourlyCount int `json:"hourlyCount"`
	DailyCount  int `json:"dailyCount"`
	MaxPerHour  int `json:"maxPerHour"`
	MaxPerDay   int `json:"maxPerDay"`
	CacheSize   int `json:"cacheSize"`
}

// Usage handles GET /v1/usage.
func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hourly, daily := h.Tracker.Counts(ctx)
	maxPerHour, maxPerDay := h.Tracker.Limits()

	writeJSON(w, usageResponse{
		HourlyCount: hourly,
		DailyCount:  daily,
		MaxPerHour:  maxPerHour,
		MaxPerDay:   maxPerDay,
		CacheSize:   h.Cache.Len(ctx),
	})
}

// Reset handles POST /v1/usage/reset: clears counters and the cache.
func (h *UsageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)

	if err := h.Manager.Reset(ctx); err != nil {
		logger.Error("usage_reset_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}

	logger.Info("usage_state_reset")
	w.WriteHeader(http.StatusNoContent)
}
