package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/audit"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const ownedAccountSelect = `
	SELECT a.id, a.user_id, a.account_number, a.account_type, a.balance, a.is_active, a.kyc_verified, a.version,
	       a.date_opened, a.last_activity, a.created_at, a.updated_at,
	       u.id, u.first_name, u.last_name, u.email, u.phone_number
	FROM accounts a
	JOIN users u ON u.id = a.user_id`

type AccountService struct {
	db        *sql.DB
	ledger    *LedgerService
	numbers   *AccountNumberGenerator
	validator *ValidationHelper
	audit     *audit.Logger
	log       *zap.Logger
}

// OpenAccountRequest opens an account for an existing user.
// @Description Admin account opening request
type OpenAccountRequest struct {
	UserID         int             `json:"userId" validate:"required,gt=0" example:"2"`
	AccountType    string          `json:"accountType" validate:"omitempty,oneof=savings checking fixed_deposit" example:"savings"`
	InitialDeposit decimal.Decimal `json:"initialDeposit" swaggertype:"string" example:"100.00"`
	KYCVerified    bool            `json:"kycVerified"`
}

func NewAccountService(db *sql.DB, ledger *LedgerService, auditLog *audit.Logger) *AccountService {
	return &AccountService{
		db:        db,
		ledger:    ledger,
		numbers:   NewAccountNumberGenerator(),
		validator: NewValidationHelper(),
		audit:     auditLog,
		log:       logger.L().Named("accounts"),
	}
}

// GetCustomerAccount returns the caller's account with owner contact details.
func (s *AccountService) GetCustomerAccount(ctx context.Context, userID int) (*models.Account, error) {
	account, err := scanOwnedAccount(s.db.QueryRowContext(ctx, ownedAccountSelect+` WHERE a.user_id = $1`, userID))
	if err != nil {
		return nil, notFoundOr(err, "load account", "Account not found.")
	}
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	account, err := scanOwnedAccount(s.db.QueryRowContext(ctx, ownedAccountSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "load account", "Account not found.")
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, ownedAccountSelect+` ORDER BY a.id`)
	if err != nil {
		return nil, internalError("list accounts", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanOwnedAccount(rows)
		if err != nil {
			return nil, internalError("scan account", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("list accounts", err)
	}
	return accounts, nil
}

// OpenAccount creates the single account a user may hold. A positive initial
// deposit is recorded as a deposit row in the same transaction.
func (s *AccountService) OpenAccount(ctx context.Context, req OpenAccountRequest, actorID int) (*models.Account, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	if req.InitialDeposit.IsNegative() || !req.InitialDeposit.Equal(req.InitialDeposit.Round(2)) || req.InitialDeposit.GreaterThan(maxAmount) {
		return nil, newError(ErrValidation, "Invalid initial deposit amount.")
	}
	if req.AccountType == "" {
		req.AccountType = models.AccountTypeSavings
	}

	var account *models.Account
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var userExists, hasAccount bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE id = $1),
			       EXISTS(SELECT 1 FROM accounts WHERE user_id = $1)`, req.UserID,
		).Scan(&userExists, &hasAccount)
		if err != nil {
			return internalError("check user", err)
		}
		if !userExists {
			return newError(ErrNotFound, "User not found.")
		}
		if hasAccount {
			return newError(ErrValidation, "User already has an account.")
		}

		number, err := s.numbers.Next(ctx, tx)
		if err != nil {
			return err
		}

		now := s.ledger.now()
		account = &models.Account{
			UserID:        req.UserID,
			AccountNumber: number,
			AccountType:   req.AccountType,
			Balance:       req.InitialDeposit,
			IsActive:      true,
			KYCVerified:   req.KYCVerified,
			Version:       1,
			DateOpened:    now,
			LastActivity:  now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO accounts (user_id, account_number, account_type, balance, is_active, kyc_verified, version, date_opened, last_activity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, $5, 1, $6, $6, $6, $6)
			RETURNING id`,
			account.UserID, account.AccountNumber, account.AccountType, account.Balance, account.KYCVerified, now,
		).Scan(&account.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return newError(ErrValidation, "User already has an account.")
			}
			return internalError("insert account", err)
		}

		if !req.InitialDeposit.IsPositive() {
			return nil
		}
		return s.ledger.appendEntry(ctx, tx, &models.Transaction{
			AccountID:       account.ID,
			TransactionType: models.TransactionTypeDeposit,
			Amount:          req.InitialDeposit,
			Description:     "Initial deposit",
			Reference:       referenceOr("", "DEP", uuid.New()),
			BalanceAfter:    req.InitialDeposit,
			Status:          models.StatusCompleted,
			PerformedBy:     actorID,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	if account.Balance.IsPositive() {
		s.audit.LogMovement("INITIAL_DEPOSIT", "", account.ID, actorID, account.Balance, map[string]string{
			"account_number": account.AccountNumber,
		})
	}
	s.log.Info("[ACCOUNT] account opened", zap.Int("account_id", account.ID), zap.Int("user_id", account.UserID))
	return account, nil
}

func (s *AccountService) SetKYC(ctx context.Context, id int, verified bool) error {
	return s.setFlag(ctx, "kyc_verified", id, verified)
}

func (s *AccountService) SetStatus(ctx context.Context, id int, active bool) error {
	return s.setFlag(ctx, "is_active", id, active)
}

// setFlag updates one boolean column. column is always a constant.
func (s *AccountService) setFlag(ctx context.Context, column string, id int, value bool) error {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE accounts SET %s = $1, updated_at = $2 WHERE id = $3`, column),
		value, s.ledger.now(), id)
	if err != nil {
		return internalError("update account", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return internalError("update account", err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Account not found.")
	}

	s.log.Info("[ACCOUNT] flag updated", zap.Int("account_id", id), zap.String("flag", column), zap.Bool("value", value))
	return nil
}

func scanOwnedAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var owner models.UserRef
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.IsActive,
		&a.KYCVerified, &a.Version, &a.DateOpened, &a.LastActivity, &a.CreatedAt, &a.UpdatedAt,
		&owner.ID, &owner.FirstName, &owner.LastName, &owner.Email, &owner.PhoneNumber)
	if err != nil {
		return nil, err
	}
	a.User = &owner
	return &a, nil
}
