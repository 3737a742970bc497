package ports

import (
	"context"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// TransactionRepository defines persistence for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByUser returns the user's transactions, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	// ListAll returns every transaction, newest first (admin view).
	ListAll(ctx context.Context) ([]domain.Transaction, error)

	// Settle flips a pending transaction to next and returns the updated
	// entry. The status filter is part of the store update itself, so a
	// transaction that is already terminal returns
	// domain.ErrInvalidSettlement even under concurrent settlement attempts.
	Settle(ctx context.Context, id string, next domain.TransactionStatus) (*domain.Transaction, error)

	// RevertSettlement returns a just-settled transaction to pending,
	// compensating a settlement whose balance effect could not be applied.
	// The update is conditional on the current status still being from, so
	// an unrelated state is never clobbered.
	RevertSettlement(ctx context.Context, id string, from domain.TransactionStatus) error
}
