package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// UserRepository defines persistence for user accounts. All balance mutations
// are increment-by-delta at the store layer so concurrent heartbeats and
// transaction requests for the same user cannot lose updates.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// ApplyAccrual atomically adds earned to the balance, energy to the
	// energy balance, and seconds to the connected-time counter, and stamps
	// the last heartbeat. One store round-trip, no read-modify-write window.
	// Returns the post-increment balance so callers report the true standing
	// even when concurrent mutations landed since their last read.
	ApplyAccrual(ctx context.Context, userID string, earned, energy decimal.Decimal, seconds int64, at time.Time) (decimal.Decimal, error)

	// DeductBalance atomically subtracts amount when the current balance
	// covers it, returning domain.ErrInsufficientFunds otherwise.
	DeductBalance(ctx context.Context, userID string, amount decimal.Decimal) error

	// CreditBalance atomically adds amount to the balance.
	CreditBalance(ctx context.Context, userID string, amount decimal.Decimal) error

	// PurchasePlan deducts price and appends planID to the active plan set
	// in a single conditional update. Duplicate plan ids are permitted.
	PurchasePlan(ctx context.Context, userID, planID string, price decimal.Decimal) error

	// PromoteAdmin sets the admin flag on the user with the given email.
	PromoteAdmin(ctx context.Context, email string) error
}
