package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionDeposit  TransactionKind = "deposit"
	TransactionWithdraw TransactionKind = "withdraw"
	TransactionStake    TransactionKind = "stake"
	TransactionPrize    TransactionKind = "prize"
)

const TransactionCompleted = "completed"

// Transaction is a write-once audit record. Balances are stored directly and
// never derived from the transaction log.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      TransactionKind `json:"kind"`
	Status    string          `json:"status"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Balance is a per-user stored amount, replaced whole on every mutation.
type Balance struct {
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
