package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxMining     TransactionType = "mining"
	TxPurchase   TransactionType = "purchase"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// validSettlements defines the allowed settlement transitions. Completed and
// failed are terminal: a settled transaction is never revisited.
var validSettlements = map[TransactionStatus][]TransactionStatus{
	StatusPending: {StatusCompleted, StatusFailed},
}

var ErrTransactionNotFound = errors.New("transaction not found")
var ErrInvalidSettlement = errors.New("invalid settlement transition")

// CanSettle reports whether a transition from the current status to next is
// allowed.
func (s TransactionStatus) CanSettle(next TransactionStatus) bool {
	for _, allowed := range validSettlements[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s TransactionStatus) IsTerminal() bool {
	return len(validSettlements[s]) == 0
}

// TransactionMetadata carries the per-type payload of a transaction. Exactly
// the fields for the transaction's type are set: purchases record the plan
// name, withdrawals the payout method and destination, deposits the on-chain
// transaction hash.
type TransactionMetadata struct {
	PlanName        string `json:"plan_name,omitempty" bson:"plan_name,omitempty"`
	Method          string `json:"method,omitempty" bson:"method,omitempty"`
	Destination     string `json:"destination,omitempty" bson:"destination,omitempty"`
	TransactionHash string `json:"transaction_hash,omitempty" bson:"transaction_hash,omitempty"`
}

// Transaction is a ledger entry. Amount is positive; its direction is implied
// by Type. Entries are immutable once settled.
type Transaction struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Amount    decimal.Decimal     `json:"amount"`
	Type      TransactionType     `json:"type"`
	Status    TransactionStatus   `json:"status"`
	Metadata  TransactionMetadata `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
}

// PurchaseMetadata builds the metadata for a plan purchase entry.
func PurchaseMetadata(planName string) TransactionMetadata {
	return TransactionMetadata{PlanName: planName}
}

// WithdrawalMetadata builds the metadata for a withdrawal request.
func WithdrawalMetadata(method, destination string) TransactionMetadata {
	return TransactionMetadata{Method: method, Destination: destination}
}

// DepositMetadata builds the metadata for a deposit request.
func DepositMetadata(transactionHash string) TransactionMetadata {
	return TransactionMetadata{TransactionHash: transactionHash}
}
