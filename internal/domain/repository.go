package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProjectionRepository defines the interface for projection persistence operations
type ProjectionRepository interface {
	// Create stores a projection together with all of its yearly snapshots
	Create(ctx context.Context, projection *Projection) error

	// GetByID retrieves a projection and its snapshots ordered by fiscal year
	GetByID(ctx context.Context, id uuid.UUID) (*Projection, error)
}
