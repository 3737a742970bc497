package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// WithdrawInput carries a withdrawal request. The minimum-amount floor is
// enforced at the HTTP boundary, not here.
type WithdrawInput struct {
	Amount      decimal.Decimal
	Method      string // e.g. "paypal", "usdt"
	Destination string // payout address or email
}

// DepositInput carries a deposit notification awaiting admin confirmation.
type DepositInput struct {
	Amount          decimal.Decimal
	TransactionHash string
}

// WalletService handles user-initiated ledger operations.
type WalletService interface {
	// Withdraw deducts the amount immediately and records a pending
	// withdrawal awaiting admin settlement.
	Withdraw(ctx context.Context, userID string, in WithdrawInput) (*domain.Transaction, error)
	// Deposit records a pending deposit; the balance is untouched until an
	// admin marks it completed.
	Deposit(ctx context.Context, userID string, in DepositInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}
