// Package state owns the persisted usage blob: the quota counters and
// the response cache live together in one JSON value under a single
// key, read-modify-written as a whole (last writer wins at the store).
package state

import (
	"encoding/json"
	"time"
)

// BlobKey is the single persistence key holding the serialized state.
const BlobKey = "helphive:usage:v1"

// CacheEntry is one cached pipeline result. Entries are kept in
// insertion order; eviction is FIFO by that order, never by access.
type CacheEntry struct {
	Key        string          `json:"key"`
	InsertedAt time.Time       `json:"ts"`
	Value      json.RawMessage `json:"value"`
}

// UsageState is the full persisted blob: rolling call counters with
// their window expiry instants, plus the response cache.
type UsageState struct {
	HourlyCount int          `json:"hourlyCount"`
	DailyCount  int          `json:"dailyCount"`
	HourReset   time.Time    `json:"hourReset"`
	DailyReset  time.Time    `json:"dailyReset"`
	Cache       []CacheEntry `json:"cache"`
}

// NewUsageState returns a fresh state with both windows opened at now.
func NewUsageState(now time.Time) *UsageState {
	return &UsageState{
		HourReset:  now.Add(time.Hour),
		DailyReset: now.Add(24 * time.Hour),
	}
}

// ResetExpiredWindows zeroes any counter whose window has passed and
// opens a new window of the full length from now. Zero-valued reset
// instants (a partial or legacy blob) count as expired.
func (s *UsageState) ResetExpiredWindows(now time.Time) {
	if s.HourReset.IsZero() || now.After(s.HourReset) {
		s.HourlyCount = 0
		s.HourReset = now.Add(time.Hour)
	}
	if s.DailyReset.IsZero() || now.After(s.DailyReset) {
		s.DailyCount = 0
		s.DailyReset = now.Add(24 * time.Hour)
	}
}
