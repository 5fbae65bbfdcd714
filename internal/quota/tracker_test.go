package quota

import (
	"context"
	"testing"
	"time"

	"helphive-gateway/internal/state"
)

func newTestTracker(maxPerHour, maxPerDay int) (*Tracker, *state.Manager) {
	mgr := state.NewManager(state.NewMemoryStore())
	return NewTracker(mgr, maxPerHour, maxPerDay), mgr
}

func TestTrackerHourlyCeiling(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tracker, _ := newTestTracker(2, 100)

	if tracker.Exceeded(ctx) {
		t.Fatalf("fresh tracker should not be exceeded")
	}

	tracker.Record(ctx)
	if tracker.Exceeded(ctx) {
		t.Fatalf("1/2 should not be exceeded")
	}

	tracker.Record(ctx)
	if !tracker.Exceeded(ctx) {
		t.Fatalf("2/2 should be exceeded")
	}
}

func TestTrackerLazyHourlyReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tracker, mgr := newTestTracker(2, 100)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mgr.SetNowFunc(func() time.Time { return now })

	tracker.Record(ctx)
	tracker.Record(ctx)
	if !tracker.Exceeded(ctx) {
		t.Fatalf("expected hourly ceiling reached")
	}

	// An hour later the window reopens without any explicit reset call.
	now = now.Add(61 * time.Minute)
	if tracker.Exceeded(ctx) {
		t.Fatalf("hourly window should have reset lazily")
	}

	hourly, daily := tracker.Counts(ctx)
	if hourly != 0 {
		t.Fatalf("expected hourly=0 after window reset, got %d", hourly)
	}
	if daily != 2 {
		t.Fatalf("daily count should survive the hourly reset, got %d", daily)
	}
}

func TestTrackerDailyCeilingSurvivesHourlyReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tracker, mgr := newTestTracker(10, 2)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mgr.SetNowFunc(func() time.Time { return now })

	tracker.Record(ctx)
	tracker.Record(ctx)
	if !tracker.Exceeded(ctx) {
		t.Fatalf("expected daily ceiling reached")
	}

	now = now.Add(61 * time.Minute)
	if !tracker.Exceeded(ctx) {
		t.Fatalf("daily ceiling must hold across hourly resets")
	}

	now = now.Add(25 * time.Hour)
	if tracker.Exceeded(ctx) {
		t.Fatalf("daily window should have reset lazily")
	}
}

func TestTrackerDefaults(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(0, -5)
	maxPerHour, maxPerDay := tracker.Limits()
	if maxPerHour != DefaultMaxPerHour || maxPerDay != DefaultMaxPerDay {
		t.Fatalf("expected defaults %d/%d, got %d/%d",
			DefaultMaxPerHour, DefaultMaxPerDay, maxPerHour, maxPerDay)
	}
}
