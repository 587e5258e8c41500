package ports

import (
	"context"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// PositionStore persists per-user conversation positions.
// Implementations must be safe for concurrent use; per-user write
// serialization is provided by the session manager, not the store.
type PositionStore interface {
	// Save persists the position for a user.
	Save(ctx context.Context, userID string, pos *domain.Position) error

	// Load retrieves the position for a user.
	// Returns domain.ErrPositionNotFound if the user has no state yet.
	Load(ctx context.Context, userID string) (*domain.Position, error)

	// Delete removes the position for a user.
	Delete(ctx context.Context, userID string) error

	// List returns the IDs of users with active positions.
	List(ctx context.Context) ([]string, error)
}
