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

type walletService struct {
	users ports.UserRepository
	txs   ports.TransactionRepository
	locks UserLocker
	log   zerolog.Logger
}

// NewWalletService returns a WalletService implementation.
func NewWalletService(
	users ports.UserRepository,
	txs ports.TransactionRepository,
	locks UserLocker,
	log zerolog.Logger,
) ports.WalletService {
	return &walletService{users: users, txs: txs, locks: locks, log: log}
}

// Withdraw deducts the amount up front and records a pending withdrawal.
// Settlement later either confirms it (no further balance change) or fails
// it (refund). If the ledger write fails after the deduct, the deduct is
// compensated so no money vanishes.
func (s *walletService) Withdraw(ctx context.Context, userID string, in ports.WithdrawInput) (*domain.Transaction, error) {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("withdraw: lock user: %w", err)
	}
	defer unlock()

	if err := s.users.DeductBalance(ctx, userID, in.Amount); err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	tx := &domain.Transaction{
		UserID:    userID,
		Amount:    in.Amount,
		Type:      domain.TxWithdrawal,
		Status:    domain.StatusPending,
		Metadata:  domain.WithdrawalMetadata(in.Method, in.Destination),
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.txs.Create(ctx, tx)
	if err != nil {
		if refundErr := s.users.CreditBalance(ctx, userID, in.Amount); refundErr != nil {
			s.log.Error().Err(refundErr).
				Str("user_id", userID).
				Str("amount", in.Amount.String()).
				Msg("compensating refund failed after withdrawal record error")
		}
		return nil, fmt.Errorf("withdraw: record transaction: %w", err)
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(string(domain.TxWithdrawal)).Inc()

	s.log.Info().
		Str("user_id", userID).
		Str("amount", in.Amount.String()).
		Str("method", in.Method).
		Msg("withdrawal requested")

	return created, nil
}

// Deposit records a pending deposit. No balance check and no balance change:
// funds appear only when an admin marks the entry completed.
func (s *walletService) Deposit(ctx context.Context, userID string, in ports.DepositInput) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		UserID:    userID,
		Amount:    in.Amount,
		Type:      domain.TxDeposit,
		Status:    domain.StatusPending,
		Metadata:  domain.DepositMetadata(in.TransactionHash),
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.txs.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("deposit: record transaction: %w", err)
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(string(domain.TxDeposit)).Inc()

	s.log.Info().
		Str("user_id", userID).
		Str("amount", in.Amount.String()).
		Msg("deposit reported")

	return created, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.txs.ListByUser(ctx, userID)
}
