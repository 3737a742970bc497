package ports

import (
	"context"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// PlanService exposes the catalog and plan purchases.
type PlanService interface {
	List(ctx context.Context) ([]domain.Plan, error)
	// Purchase deducts the plan price, adds the plan to the buyer's active
	// set and records a completed purchase transaction. Buying a plan the
	// user already owns stacks a second copy.
	Purchase(ctx context.Context, userID, planID string) (*domain.User, error)
}
