// Package memory provides in-memory adapters, used in tests and by the
// chat simulator.
package memory

import (
	"context"
	"sync"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// Store implements ports.PositionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Position
	mu   sync.RWMutex
}

// NewStore creates a new in-memory position store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Position),
	}
}

// Save persists the position in memory.
func (s *Store) Save(ctx context.Context, userID string, pos *domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Store by value so callers can't mutate stored state through the pointer.
	s.data[userID] = *pos
	return nil
}

// Load retrieves the position from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}

	ret := pos
	return &ret, nil
}

// Delete removes the position.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns users with active positions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.data))
	for id := range s.data {
		users = append(users, id)
	}
	return users, nil
}
