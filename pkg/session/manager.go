// Package session serializes conversation turns per user.
//
// The state machine requires its caller to serialize reads and writes of
// a user's position (duplicate webhook deliveries and rapid double-sends
// would otherwise race on the write-back and lose a transition). Manager
// is that collaborator: a ref-counted in-process mutex per user, plus an
// optional distributed lock for multi-replica deployments.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates position access, ensuring safe concurrent turns.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.PositionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock TTL (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given position store.
func NewManager(store ports.PositionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(userID) after
// unlocking.
func (m *Manager) acquire(userID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		entry = &lockEntry{}
		m.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it
// reaches zero.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, userID)
	}
}

// Load retrieves an existing position under the user's lock.
func (m *Manager) Load(ctx context.Context, userID string) (*domain.Position, error) {
	var pos *domain.Position
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		pos, err = m.store.Load(ctx, userID)
		return err
	})
	return pos, err
}

// LoadOrStart tries to load a position. If the user is new, it creates
// and persists the initial position (no current template, default or
// given language).
func (m *Manager) LoadOrStart(ctx context.Context, userID string, lang domain.Language) (*domain.Position, error) {
	var pos *domain.Position
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		pos, err = m.store.Load(ctx, userID)
		if err == nil {
			return nil
		}
		if err != domain.ErrPositionNotFound {
			return fmt.Errorf("failed to check position existence: %w", err)
		}

		pos = domain.NewPosition(lang)
		if err := m.store.Save(ctx, userID, pos); err != nil {
			return fmt.Errorf("failed to initialize position: %w", err)
		}
		return nil
	})
	return pos, err
}

// Turn runs one serialized conversation turn: load the position (creating
// the initial one for first-time users), apply step, and persist the
// position the step returns. The whole sequence holds the user's lock, so
// duplicate deliveries and rapid double-sends cannot interleave.
func (m *Manager) Turn(ctx context.Context, userID string, lang domain.Language, step func(context.Context, domain.Position) (*domain.Turn, error)) (*domain.Turn, error) {
	var turn *domain.Turn
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		pos, err := m.store.Load(ctx, userID)
		if err != nil {
			if err != domain.ErrPositionNotFound {
				return fmt.Errorf("load position: %w", err)
			}
			pos = domain.NewPosition(lang)
		}

		turn, err = step(ctx, *pos)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, userID, &turn.Position)
	})
	if err != nil {
		return nil, err
	}
	return turn, nil
}

// Save persists the position under the user's lock.
func (m *Manager) Save(ctx context.Context, userID string, pos *domain.Position) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Save(ctx, userID, pos)
	})
}

// Delete removes the position from the store.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Delete(ctx, userID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying position store.
func (m *Manager) Store() ports.PositionStore {
	return m.store
}

// WithLock executes fn while holding the lock for the user. When a
// distributed locker is configured, the in-process lock is taken first,
// then the distributed one.
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
