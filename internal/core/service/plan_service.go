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

type planService struct {
	plans ports.PlanRepository
	users ports.UserRepository
	txs   ports.TransactionRepository
	locks UserLocker
	log   zerolog.Logger
}

// NewPlanService returns a PlanService implementation.
func NewPlanService(
	plans ports.PlanRepository,
	users ports.UserRepository,
	txs ports.TransactionRepository,
	locks UserLocker,
	log zerolog.Logger,
) ports.PlanService {
	return &planService{plans: plans, users: users, txs: txs, locks: locks, log: log}
}

func (s *planService) List(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.List(ctx)
}

// Purchase deducts the plan price and appends the plan id in one conditional
// store update, then records the completed purchase entry. The per-user lock
// keeps the deduct and the ledger write from interleaving with a concurrent
// withdrawal or settlement on the same account.
func (s *planService) Purchase(ctx context.Context, userID, planID string) (*domain.User, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase: lock user: %w", err)
	}
	defer unlock()

	if err := s.users.PurchasePlan(ctx, userID, plan.ID, plan.Price); err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	tx := &domain.Transaction{
		UserID:    userID,
		Amount:    plan.Price,
		Type:      domain.TxPurchase,
		Status:    domain.StatusCompleted,
		Metadata:  domain.PurchaseMetadata(plan.Name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.txs.Create(ctx, tx); err != nil {
		// The plan is already owned; a missing ledger entry is an audit gap,
		// not a balance error. Surface it loudly instead of unwinding.
		s.log.Error().Err(err).
			Str("user_id", userID).
			Str("plan_id", plan.ID).
			Msg("purchase ledger entry write failed")
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(string(domain.TxPurchase)).Inc()

	s.log.Info().
		Str("user_id", userID).
		Str("plan", plan.Name).
		Str("price", plan.Price.String()).
		Msg("plan purchased")

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase: reload user: %w", err)
	}
	return updated, nil
}
