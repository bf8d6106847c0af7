package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeFee        = "fee"
)

// Ledger row statuses. Only StatusCompleted is ever written; the others are
// accepted by the schema for compatibility with imported data.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Transaction is an immutable ledger row.
type Transaction struct {
	ID              int             `json:"id" db:"id"`
	AccountID       int             `json:"accountId" db:"account_id"`
	TransactionType string          `json:"transactionType" db:"transaction_type" example:"deposit"`
	Amount          decimal.Decimal `json:"amount" db:"amount" swaggertype:"string" example:"100.00"`
	Description     string          `json:"description" db:"description"`
	Reference       string          `json:"reference" db:"reference"`
	ToAccount       *string         `json:"toAccount" db:"to_account"`
	FromAccount     *string         `json:"fromAccount" db:"from_account"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter" db:"balance_after" swaggertype:"string" example:"100.00"`
	Status          string          `json:"status" db:"status" example:"completed"`
	PerformedBy     int             `json:"performedBy" db:"performed_by"`
	IdempotencyKey  *string         `json:"-" db:"idempotency_key"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`

	// Set on admin listings only.
	AccountNumber string `json:"accountNumber,omitempty"`
	OwnerName     string `json:"ownerName,omitempty"`
}
