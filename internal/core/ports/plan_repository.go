package ports

import (
	"context"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// PlanRepository defines read access to the plan catalog. The catalog is
// append-only after the one-time seed.
type PlanRepository interface {
	// List returns all plans ordered by ascending price.
	List(ctx context.Context) ([]domain.Plan, error)
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	// FindByIDs resolves a multiset of plan ids; ids with no catalog entry
	// are silently skipped, duplicates are returned once per occurrence.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Plan, error)
	// Seed inserts the given plans only when the catalog is empty.
	Seed(ctx context.Context, plans []domain.Plan) error
}
