package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTransferLimit applies when a beneficiary is registered without one.
var DefaultTransferLimit = decimal.RequireFromString("10000.00")

// Beneficiary is an external payee. AccountNumber is not validated against
// accounts held here.
type Beneficiary struct {
	ID            int             `json:"id" db:"id"`
	AccountID     int             `json:"accountId" db:"account_id"`
	Name          string          `json:"name" db:"name" example:"Jane Smith"`
	AccountNumber string          `json:"accountNumber" db:"account_number" example:"5678901234"`
	BankName      string          `json:"bankName" db:"bank_name" example:"Chase Bank"`
	TransferLimit decimal.Decimal `json:"transferLimit" db:"transfer_limit" swaggertype:"string" example:"10000.00"`
	Nickname      *string         `json:"nickname" db:"nickname"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
