package ports

import (
	"context"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// AdminService settles pending transactions.
type AdminService interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// Settle moves a pending transaction to completed or failed and applies
	// the balance effect: completing a deposit credits it, failing a
	// withdrawal refunds it, everything else leaves the balance alone.
	// Settling an already-terminal transaction fails with
	// domain.ErrInvalidSettlement.
	Settle(ctx context.Context, transactionID string, next domain.TransactionStatus) (*domain.Transaction, error)
}
