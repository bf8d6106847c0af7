package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeSavings      = "savings"
	AccountTypeChecking     = "checking"
	AccountTypeFixedDeposit = "fixed_deposit"
)

type Account struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"userId" db:"user_id"`
	AccountNumber string          `json:"accountNumber" db:"account_number" example:"4532015112830366"`
	AccountType   string          `json:"accountType" db:"account_type" example:"savings"`
	Balance       decimal.Decimal `json:"balance" db:"balance" swaggertype:"string" example:"0.00"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	KYCVerified   bool            `json:"kycVerified" db:"kyc_verified"`
	Version       int             `json:"-" db:"version"` // for optimistic locking
	DateOpened    time.Time       `json:"dateOpened" db:"date_opened"`
	LastActivity  time.Time       `json:"lastActivity" db:"last_activity"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`

	User *UserRef `json:"user,omitempty"`
}

// AccountSummary is the account projection embedded in user responses.
type AccountSummary struct {
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	IsActive      bool            `json:"isActive"`
	KYCVerified   bool            `json:"kycVerified"`
}
