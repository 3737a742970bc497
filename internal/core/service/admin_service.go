package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/energybank/energy-bank/internal/api/metrics"
	"github.com/energybank/energy-bank/internal/core/domain"
	"github.com/energybank/energy-bank/internal/core/ports"
)

type adminService struct {
	users ports.UserRepository
	txs   ports.TransactionRepository
	locks UserLocker
	log   zerolog.Logger
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(
	users ports.UserRepository,
	txs ports.TransactionRepository,
	locks UserLocker,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{users: users, txs: txs, locks: locks, log: log}
}

func (s *adminService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.txs.ListAll(ctx)
}

// Settle finalizes a pending transaction. The status flip is conditional on
// the entry still being pending, both here and inside the store update, so a
// deposit can never be credited twice and a withdrawal never refunded twice.
func (s *adminService) Settle(ctx context.Context, transactionID string, next domain.TransactionStatus) (*domain.Transaction, error) {
	if next != domain.StatusCompleted && next != domain.StatusFailed {
		return nil, fmt.Errorf("settle: %w: target %q", domain.ErrInvalidSettlement, next)
	}

	tx, err := s.txs.FindByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	if !tx.Status.CanSettle(next) {
		return nil, fmt.Errorf("settle: %w (from %s to %s)", domain.ErrInvalidSettlement, tx.Status, next)
	}

	unlock, err := s.locks.Lock(ctx, tx.UserID)
	if err != nil {
		return nil, fmt.Errorf("settle: lock user: %w", err)
	}
	defer unlock()

	settled, err := s.txs.Settle(ctx, transactionID, next)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	// Balance effects: a completed deposit credits its amount; a failed
	// withdrawal refunds the amount deducted at request time. Completed
	// withdrawals and failed deposits change nothing.
	switch {
	case next == domain.StatusCompleted && settled.Type == domain.TxDeposit:
		err = s.users.CreditBalance(ctx, settled.UserID, settled.Amount)
	case next == domain.StatusFailed && settled.Type == domain.TxWithdrawal:
		err = s.users.CreditBalance(ctx, settled.UserID, settled.Amount)
	}
	if err != nil {
		// The flip already landed but the money did not move. Put the entry
		// back to pending so a retry can settle it again; otherwise the
		// terminal status would strand the credit forever.
		if revertErr := s.txs.RevertSettlement(ctx, settled.ID, next); revertErr != nil {
			s.log.Error().Err(revertErr).
				Str("transaction_id", settled.ID).
				Str("user_id", settled.UserID).
				Str("status", string(next)).
				Msg("settlement revert failed after balance effect error")
		}
		s.log.Error().Err(err).
			Str("transaction_id", settled.ID).
			Str("user_id", settled.UserID).
			Str("status", string(next)).
			Msg("settlement balance effect failed")
		return nil, fmt.Errorf("settle: apply balance effect: %w", err)
	}

	metrics.SettlementsTotal.WithLabelValues(string(settled.Type), string(next)).Inc()

	s.log.Info().
		Str("transaction_id", settled.ID).
		Str("user_id", settled.UserID).
		Str("type", string(settled.Type)).
		Str("status", string(next)).
		Msg("transaction settled")

	return settled, nil
}
