package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"helphive-gateway/pkg/logging/logging"

	"go.uber.org/zap"
)

// Manager serializes all access to the usage blob behind one mutex:
// every quota check, quota increment and cache mutation is a single
// read-modify-write, so no caller can observe a stale pre-increment
// count. Persistence failures are logged and absorbed; the in-memory
// copy stays authoritative until the next successful save.
type Manager struct {
	mu    sync.Mutex
	store Store
	cur   *UsageState

	// now is swappable in tests.
	now func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
	}
}

// loadLocked materializes the current state, creating a fresh one when
// the blob is absent or corrupt. Callers must hold m.mu.
func (m *Manager) loadLocked(ctx context.Context) *UsageState {
	if m.cur != nil {
		return m.cur
	}

	logger := logging.L(ctx)

	data, found, err := m.store.Load(ctx)
	if err != nil {
		logger.Warn("usage_state_load_error", zap.Error(err))
	}

	if found && err == nil {
		var s UsageState
		if uerr := json.Unmarshal(data, &s); uerr == nil {
			m.cur = &s
			return m.cur
		}
		logger.Warn("usage_state_corrupt, reinitializing",
			zap.Int("blob_bytes", len(data)),
		)
	}

	m.cur = NewUsageState(m.now())
	return m.cur
}

func (m *Manager) saveLocked(ctx context.Context) {
	data, err := json.Marshal(m.cur)
	if err != nil {
		logging.L(ctx).Error("usage_state_marshal_error", zap.Error(err))
		return
	}
	if err := m.store.Save(ctx, data); err != nil {
		logging.L(ctx).Warn("usage_state_save_error", zap.Error(err))
	}
}

// Update runs fn against the current state under the lock, then
// persists the result.
func (m *Manager) Update(ctx context.Context, fn func(s *UsageState)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.loadLocked(ctx)
	fn(s)
	m.saveLocked(ctx)
}

// View runs fn against the current state under the lock without
// persisting afterwards.
func (m *Manager) View(ctx context.Context, fn func(s *UsageState)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(m.loadLocked(ctx))
}

// Reset discards all counters and cached responses.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = NewUsageState(m.now())
	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("reset usage state: %w", err)
	}
	m.saveLocked(ctx)
	return nil
}

// Now returns the manager's current time source.
func (m *Manager) Now() time.Time { return m.now() }

// SetNowFunc overrides the time source. Tests only.
func (m *Manager) SetNowFunc(fn func() time.Time) { m.now = fn }
