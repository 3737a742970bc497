package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/energybank/energy-bank/internal/api/metrics"
	"github.com/energybank/energy-bank/internal/core/domain"
	"github.com/energybank/energy-bank/internal/core/ports"
)

type miningService struct {
	users ports.UserRepository
	plans ports.PlanRepository
	log   zerolog.Logger
}

// NewMiningService returns a MiningService implementation.
func NewMiningService(users ports.UserRepository, plans ports.PlanRepository, log zerolog.Logger) ports.MiningService {
	return &miningService{users: users, plans: plans, log: log}
}

// Heartbeat accrues earnings for one reported interval. The balance, energy
// and connected-time updates go through a single atomic increment at the
// store, so heartbeats racing each other or a purchase cannot clobber the
// balance.
func (s *miningService) Heartbeat(ctx context.Context, userID string, connectedSeconds int64) (*ports.HeartbeatResult, error) {
	start := time.Now()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("heartbeat: %w", err)
	}

	activePlans, err := s.plans.FindByIDs(ctx, user.ActivePlanIDs)
	if err != nil {
		return nil, fmt.Errorf("heartbeat: resolve plans: %w", err)
	}

	accrual := domain.ComputeAccrual(activePlans, connectedSeconds)

	// Nothing to persist for a zero interval or an idle account; the
	// response still reports the current standing.
	newBalance := user.Balance
	if connectedSeconds > 0 && len(activePlans) > 0 {
		newBalance, err = s.users.ApplyAccrual(ctx, userID, accrual.EarnedAmount, accrual.EnergyProduced, connectedSeconds, time.Now().UTC())
		if err != nil {
			metrics.HeartbeatErrorsTotal.WithLabelValues("apply_failed").Inc()
			return nil, fmt.Errorf("heartbeat: apply accrual: %w", err)
		}
	}

	earned, _ := accrual.EarnedAmount.Float64()
	metrics.HeartbeatsProcessedTotal.WithLabelValues(string(accrual.Rank)).Inc()
	metrics.BalanceAccruedTotal.Add(earned)
	metrics.HeartbeatDuration.Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("user_id", userID).
		Int64("seconds", connectedSeconds).
		Str("earned", accrual.EarnedAmount.String()).
		Str("rank", string(accrual.Rank)).
		Msg("heartbeat accrued")

	return &ports.HeartbeatResult{
		EarnedAmount:   accrual.EarnedAmount,
		NewBalance:     newBalance,
		EnergyProduced: accrual.EnergyProduced,
		Rank:           accrual.Rank,
		Bonus:          accrual.BonusPercent(),
	}, nil
}
