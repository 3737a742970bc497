package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// HeartbeatResult is returned to the client after each heartbeat.
type HeartbeatResult struct {
	EarnedAmount   decimal.Decimal
	NewBalance     decimal.Decimal
	EnergyProduced decimal.Decimal
	Rank           domain.Rank
	Bonus          string // e.g. "15%"
}

// MiningService converts reported connected time into accrued balance and
// energy.
type MiningService interface {
	// Heartbeat accrues earnings for connectedSeconds of connected time.
	// Zero seconds or an empty plan set accrue nothing and are not errors.
	Heartbeat(ctx context.Context, userID string, connectedSeconds int64) (*HeartbeatResult, error)
}
