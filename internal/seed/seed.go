package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	AdminEmail    = "admin@ledgerline.local"
	CustomerEmail = "john.doe@example.com"
	seedPassword  = "password123"
)

// Hasher hashes fixture passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

type userFixture struct {
	FirstName, LastName, Email, Phone, Address, City, State, Zip, Role string
}

type accountFixture struct {
	Number      string
	Type        string
	Balance     decimal.Decimal
	KYCVerified bool
}

type beneficiaryFixture struct {
	Name, AccountNumber, BankName, Nickname string
	Limit                                   decimal.Decimal
}

// Fixtures is the demo data set loaded by Run.
type Fixtures struct {
	Admin         userFixture
	Customer      userFixture
	Account       accountFixture
	Beneficiaries []beneficiaryFixture
}

func DefaultFixtures() Fixtures {
	return Fixtures{
		Admin: userFixture{
			FirstName: "System", LastName: "Administrator", Email: AdminEmail,
			Phone: "+15555550000", Address: "1 Ledger Way", City: "New York", State: "NY", Zip: "10001",
			Role: models.RoleAdmin,
		},
		Customer: userFixture{
			FirstName: "John", LastName: "Doe", Email: CustomerEmail,
			Phone: "+1234567890", Address: "123 Main Street", City: "New York", State: "NY", Zip: "10001",
			Role: models.RoleCustomer,
		},
		Account: accountFixture{
			Number:      "4532015112830366",
			Type:        models.AccountTypeSavings,
			Balance:     decimal.RequireFromString("15678.45"),
			KYCVerified: true,
		},
		Beneficiaries: []beneficiaryFixture{
			{Name: "Jane Smith", AccountNumber: "5678901234", BankName: "Chase Bank", Nickname: "Sister", Limit: models.DefaultTransferLimit},
			{Name: "Robert Johnson", AccountNumber: "6789012345", BankName: "Bank of America", Nickname: "Friend", Limit: decimal.RequireFromString("2500.00")},
		},
	}
}

// Run loads f inside one transaction. It does nothing when the admin user
// already exists.
func Run(ctx context.Context, db *sql.DB, hasher Hasher, f Fixtures) error {
	log := logger.L().Named("seed")

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, f.Admin.Email).Scan(&exists); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if exists {
		log.Info("seed already applied, skipping")
		return nil
	}

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	adminID, err := insertUser(ctx, tx, f.Admin, hash)
	if err != nil {
		return err
	}
	customerID, err := insertUser(ctx, tx, f.Customer, hash)
	if err != nil {
		return err
	}

	var accountID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, account_number, account_type, balance, kyc_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		customerID, f.Account.Number, f.Account.Type, f.Account.Balance, f.Account.KYCVerified,
	).Scan(&accountID)
	if err != nil {
		return fmt.Errorf("insert seed account: %w", err)
	}

	// The opening balance is backed by a ledger row so the account history
	// sums to its balance.
	if f.Account.Balance.IsPositive() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (account_id, transaction_type, amount, description, reference, balance_after, status, performed_by)
			VALUES ($1, $2, $3, $4, $5, $3, $6, $7)`,
			accountID, models.TransactionTypeDeposit, f.Account.Balance, "Initial deposit", "SEED-"+f.Account.Number,
			models.StatusCompleted, adminID)
		if err != nil {
			return fmt.Errorf("insert seed deposit: %w", err)
		}
	}

	for _, b := range f.Beneficiaries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO beneficiaries (account_id, name, account_number, bank_name, transfer_limit, nickname)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			accountID, b.Name, b.AccountNumber, b.BankName, b.Limit, b.Nickname)
		if err != nil {
			return fmt.Errorf("insert seed beneficiary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	log.Info("seed applied",
		zap.String("admin", f.Admin.Email),
		zap.String("customer", f.Customer.Email),
		zap.Int("beneficiaries", len(f.Beneficiaries)))
	return nil
}

func insertUser(ctx context.Context, tx *sql.Tx, u userFixture, hash string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password, phone_number, address, city, state, zip_code, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		u.FirstName, u.LastName, u.Email, hash, u.Phone, u.Address, u.City, u.State, u.Zip, u.Role,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert seed user %s: %w", u.Email, err)
	}
	return id, nil
}
