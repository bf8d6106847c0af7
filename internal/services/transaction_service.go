package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/audit"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Largest amount a NUMERIC(15,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999999.99")

type TransactionService struct {
	db             *sql.DB
	redis          *redis.Client
	ledger         *LedgerService
	audit          *audit.Logger
	validator      *ValidationHelper
	idempotencyTTL time.Duration
	log            *zap.Logger
}

// DepositRequest moves money into (deposit) or out of (withdrawal) one
// account on behalf of an admin.
// @Description Admin deposit or withdrawal request
type DepositRequest struct {
	AccountID      int             `json:"accountId" validate:"required,gt=0" example:"1"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
	Description    string          `json:"description" validate:"max=255" example:"Cash deposit"`
	Reference      string          `json:"reference" validate:"max=64"`
	IdempotencyKey string          `json:"-" validate:"max=128"`
}

type WithdrawRequest = DepositRequest

// TransferRequest debits the caller's account towards one of their
// beneficiaries.
// @Description Customer transfer request
type TransferRequest struct {
	BeneficiaryID  int             `json:"beneficiaryId" validate:"required,gt=0" example:"3"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"250.00"`
	Description    string          `json:"description" validate:"max=255"`
	Reference      string          `json:"reference" validate:"max=64"`
	IdempotencyKey string          `json:"-" validate:"max=128"`
}

// AdminTransferRequest moves money between two accounts held here.
// @Description Admin transfer request
type AdminTransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" validate:"required,numeric,max=16" example:"4532015112830366"`
	ToAccountNumber   string          `json:"toAccountNumber" validate:"required,numeric,max=16,nefield=FromAccountNumber" example:"4716461583322103"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Description       string          `json:"description" validate:"max=255"`
	Reference         string          `json:"reference" validate:"max=64"`
	IdempotencyKey    string          `json:"-" validate:"max=128"`
}

// MovementResult is returned by single-row operations.
type MovementResult struct {
	Message     string              `json:"message"`
	Transaction *models.Transaction `json:"transaction"`
	Replayed    bool                `json:"replayed,omitempty"`
}

// TransferResult is returned by the admin transfer, which writes one row per
// side.
type TransferResult struct {
	Message                string              `json:"message"`
	SourceTransaction      *models.Transaction `json:"sourceTransaction"`
	DestinationTransaction *models.Transaction `json:"destinationTransaction"`
	Replayed               bool                `json:"replayed,omitempty"`
}

func NewTransactionService(db *sql.DB, redisClient *redis.Client, ledger *LedgerService, auditLog *audit.Logger, idempotencyTTL time.Duration) *TransactionService {
	return &TransactionService{
		db:             db,
		redis:          redisClient,
		ledger:         ledger,
		audit:          auditLog,
		validator:      NewValidationHelper(),
		idempotencyTTL: idempotencyTTL,
		log:            logger.L().Named("transactions"),
	}
}

func (ts *TransactionService) Deposit(ctx context.Context, req DepositRequest, actorID int) (*MovementResult, error) {
	if err := ts.validator.Validate(&req); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount, "Invalid deposit amount."); err != nil {
		return nil, err
	}

	release, err := ts.guardIdempotency(ctx, actorID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *MovementResult
	err = ts.ledger.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		account, err := ts.ledger.lockAccountByID(ctx, tx, req.AccountID)
		if err != nil {
			return notFoundOr(err, "lock account", "Account not found.")
		}

		match := replayMatch{txType: models.TransactionTypeDeposit, amount: req.Amount, actorID: actorID}
		if prior, err := ts.replayOne(ctx, tx, account.ID, req.IdempotencyKey, match); err != nil || prior != nil {
			if prior != nil {
				result = &MovementResult{Message: "Deposit processed successfully.", Transaction: prior, Replayed: true}
			}
			return err
		}

		if !account.IsActive {
			return newError(ErrForbidden, "Account is inactive.")
		}

		now := ts.ledger.now()
		newBalance := account.Balance.Add(req.Amount)
		if err := ts.ledger.updateAccountBalance(ctx, tx, account, newBalance, now); err != nil {
			return err
		}

		entry := &models.Transaction{
			AccountID:       account.ID,
			TransactionType: models.TransactionTypeDeposit,
			Amount:          req.Amount,
			Description:     describe(req.Description, "Deposit"),
			Reference:       referenceOr(req.Reference, "DEP", uuid.New()),
			BalanceAfter:    newBalance,
			Status:          models.StatusCompleted,
			PerformedBy:     actorID,
			IdempotencyKey:  stringPtr(req.IdempotencyKey),
			CreatedAt:       now,
		}
		if err := ts.ledger.appendEntry(ctx, tx, entry); err != nil {
			return err
		}

		result = &MovementResult{Message: "Deposit processed successfully.", Transaction: entry}
		return nil
	})
	if err != nil {
		ts.audit.LogFailure("DEPOSIT", req.AccountID, actorID, req.Amount, err)
		return nil, err
	}

	ts.recordMovement("DEPOSIT", result.Transaction, result.Replayed, nil)
	return result, nil
}

func (ts *TransactionService) Withdraw(ctx context.Context, req WithdrawRequest, actorID int) (*MovementResult, error) {
	if err := ts.validator.Validate(&req); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount, "Invalid withdrawal amount."); err != nil {
		return nil, err
	}

	release, err := ts.guardIdempotency(ctx, actorID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *MovementResult
	err = ts.ledger.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		account, err := ts.ledger.lockAccountByID(ctx, tx, req.AccountID)
		if err != nil {
			return notFoundOr(err, "lock account", "Account not found.")
		}

		match := replayMatch{txType: models.TransactionTypeWithdrawal, amount: req.Amount, actorID: actorID}
		if prior, err := ts.replayOne(ctx, tx, account.ID, req.IdempotencyKey, match); err != nil || prior != nil {
			if prior != nil {
				result = &MovementResult{Message: "Withdrawal processed successfully.", Transaction: prior, Replayed: true}
			}
			return err
		}

		if !account.IsActive {
			return newError(ErrForbidden, "Account is inactive.")
		}
		if !account.KYCVerified {
			return newError(ErrForbidden, "KYC verification pending. Withdrawals not allowed.")
		}
		if account.Balance.LessThan(req.Amount) {
			return newError(ErrInsufficientFunds, "Insufficient balance.")
		}

		now := ts.ledger.now()
		newBalance := account.Balance.Sub(req.Amount)
		if err := ts.ledger.updateAccountBalance(ctx, tx, account, newBalance, now); err != nil {
			return err
		}

		entry := &models.Transaction{
			AccountID:       account.ID,
			TransactionType: models.TransactionTypeWithdrawal,
			Amount:          req.Amount,
			Description:     describe(req.Description, "Withdrawal"),
			Reference:       referenceOr(req.Reference, "WDR", uuid.New()),
			BalanceAfter:    newBalance,
			Status:          models.StatusCompleted,
			PerformedBy:     actorID,
			IdempotencyKey:  stringPtr(req.IdempotencyKey),
			CreatedAt:       now,
		}
		if err := ts.ledger.appendEntry(ctx, tx, entry); err != nil {
			return err
		}

		result = &MovementResult{Message: "Withdrawal processed successfully.", Transaction: entry}
		return nil
	})
	if err != nil {
		ts.audit.LogFailure("WITHDRAWAL", req.AccountID, actorID, req.Amount, err)
		return nil, err
	}

	ts.recordMovement("WITHDRAWAL", result.Transaction, result.Replayed, nil)
	return result, nil
}

// Transfer debits the caller's account towards a registered beneficiary.
// Beneficiaries are external payees, so no credit row is written here.
func (ts *TransactionService) Transfer(ctx context.Context, userID int, req TransferRequest) (*MovementResult, error) {
	if err := ts.validator.Validate(&req); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount, "Invalid transfer amount."); err != nil {
		return nil, err
	}

	release, err := ts.guardIdempotency(ctx, userID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *MovementResult
	var accountID int
	err = ts.ledger.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		account, err := ts.ledger.lockAccountByUser(ctx, tx, userID)
		if err != nil {
			return notFoundOr(err, "lock account", "Account not found.")
		}
		accountID = account.ID

		match := replayMatch{txType: models.TransactionTypeTransfer, amount: req.Amount, actorID: userID}
		if req.IdempotencyKey != "" {
			// A replay must name the payee the stored row was sent to, even if
			// the beneficiary has been deactivated since.
			number, err := beneficiaryAccountNumber(ctx, tx, req.BeneficiaryID, account.ID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return internalError("load beneficiary", err)
			}
			match.toAccount = &number
		}
		if prior, err := ts.replayOne(ctx, tx, account.ID, req.IdempotencyKey, match); err != nil || prior != nil {
			if prior != nil {
				result = &MovementResult{Message: "Transfer completed successfully.", Transaction: prior, Replayed: true}
			}
			return err
		}

		if !account.IsActive {
			return newError(ErrForbidden, "Your account is inactive. Please contact support.")
		}
		if !account.KYCVerified {
			return newError(ErrForbidden, "Your KYC verification is pending. Transfers are not allowed.")
		}

		beneficiary, err := activeBeneficiary(ctx, tx, req.BeneficiaryID, account.ID)
		if err != nil {
			return notFoundOr(err, "load beneficiary", "Beneficiary not found or inactive.")
		}
		if req.Amount.GreaterThan(beneficiary.TransferLimit) {
			return newError(ErrLimitExceeded, "Transfer amount exceeds beneficiary limit of %s.", beneficiary.TransferLimit.StringFixed(2))
		}
		if account.Balance.LessThan(req.Amount) {
			return newError(ErrInsufficientFunds, "Insufficient balance.")
		}

		now := ts.ledger.now()
		newBalance := account.Balance.Sub(req.Amount)
		if err := ts.ledger.updateAccountBalance(ctx, tx, account, newBalance, now); err != nil {
			return err
		}

		entry := &models.Transaction{
			AccountID:       account.ID,
			TransactionType: models.TransactionTypeTransfer,
			Amount:          req.Amount,
			Description:     describe(req.Description, "Transfer to "+beneficiary.Name),
			Reference:       referenceOr(req.Reference, "TRF", uuid.New()),
			ToAccount:       stringPtr(beneficiary.AccountNumber),
			FromAccount:     stringPtr(account.AccountNumber),
			BalanceAfter:    newBalance,
			Status:          models.StatusCompleted,
			PerformedBy:     userID,
			IdempotencyKey:  stringPtr(req.IdempotencyKey),
			CreatedAt:       now,
		}
		if err := ts.ledger.appendEntry(ctx, tx, entry); err != nil {
			return err
		}

		result = &MovementResult{Message: "Transfer completed successfully.", Transaction: entry}
		return nil
	})
	if err != nil {
		ts.audit.LogFailure("TRANSFER", accountID, userID, req.Amount, err)
		return nil, err
	}

	ts.recordMovement("TRANSFER", result.Transaction, result.Replayed, map[string]string{
		"beneficiary_id": fmt.Sprint(req.BeneficiaryID),
	})
	return result, nil
}

// AdminTransfer moves money between two accounts held here, writing one row
// per side under a shared reference.
func (ts *TransactionService) AdminTransfer(ctx context.Context, req AdminTransferRequest, actorID int) (*TransferResult, error) {
	if err := ts.validator.Validate(&req); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount, "Invalid transfer amount."); err != nil {
		return nil, err
	}

	release, err := ts.guardIdempotency(ctx, actorID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *TransferResult
	var sourceID int
	err = ts.ledger.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		fromID, err := ts.ledger.accountIDByNumber(ctx, tx, req.FromAccountNumber)
		if err != nil {
			return notFoundOr(err, "resolve source account", "Source account not found.")
		}
		sourceID = fromID
		toID, err := ts.ledger.accountIDByNumber(ctx, tx, req.ToAccountNumber)
		if err != nil {
			return notFoundOr(err, "resolve destination account", "Destination account not found.")
		}
		if fromID == toID {
			return newError(ErrValidation, "Source and destination accounts must differ.")
		}

		source, destination, err := ts.ledger.lockPair(ctx, tx, fromID, toID)
		if err != nil {
			return notFoundOr(err, "lock accounts", "Account not found.")
		}

		match := replayMatch{
			txType:    models.TransactionTypeTransfer,
			amount:    req.Amount,
			actorID:   actorID,
			toAccount: &destination.AccountNumber,
		}
		prior, err := ts.replayOne(ctx, tx, source.ID, req.IdempotencyKey, match)
		if err != nil {
			return err
		}
		if prior != nil {
			credit, err := ts.ledger.counterpart(ctx, tx, prior, destination.ID)
			if err != nil {
				return err
			}
			result = &TransferResult{
				Message:                "Transfer processed successfully.",
				SourceTransaction:      prior,
				DestinationTransaction: credit,
				Replayed:               true,
			}
			return nil
		}

		if !source.IsActive {
			return newError(ErrForbidden, "Source account is inactive.")
		}
		if !source.KYCVerified {
			return newError(ErrForbidden, "Source account KYC verification pending. Transfers not allowed.")
		}
		if !destination.IsActive {
			return newError(ErrForbidden, "Destination account is inactive.")
		}
		if source.Balance.LessThan(req.Amount) {
			return newError(ErrInsufficientFunds, "Insufficient balance in source account.")
		}

		now := ts.ledger.now()
		newSourceBalance := source.Balance.Sub(req.Amount)
		newDestinationBalance := destination.Balance.Add(req.Amount)
		if err := ts.ledger.updateAccountBalance(ctx, tx, source, newSourceBalance, now); err != nil {
			return err
		}
		if err := ts.ledger.updateAccountBalance(ctx, tx, destination, newDestinationBalance, now); err != nil {
			return err
		}

		// Only the debit row carries the key, so the destination owner's own
		// keys never collide with it.
		reference := referenceOr(req.Reference, "TRF", uuid.New())
		sourceEntry := &models.Transaction{
			AccountID:       source.ID,
			TransactionType: models.TransactionTypeTransfer,
			Amount:          req.Amount,
			Description:     describe(req.Description, "Transfer out"),
			Reference:       reference,
			ToAccount:       stringPtr(destination.AccountNumber),
			FromAccount:     stringPtr(source.AccountNumber),
			BalanceAfter:    newSourceBalance,
			Status:          models.StatusCompleted,
			PerformedBy:     actorID,
			IdempotencyKey:  stringPtr(req.IdempotencyKey),
			CreatedAt:       now,
		}
		destinationEntry := &models.Transaction{
			AccountID:       destination.ID,
			TransactionType: models.TransactionTypeTransfer,
			Amount:          req.Amount,
			Description:     describe(req.Description, "Transfer in"),
			Reference:       reference,
			ToAccount:       stringPtr(destination.AccountNumber),
			FromAccount:     stringPtr(source.AccountNumber),
			BalanceAfter:    newDestinationBalance,
			Status:          models.StatusCompleted,
			PerformedBy:     actorID,
			CreatedAt:       now,
		}
		if err := ts.ledger.appendEntry(ctx, tx, sourceEntry); err != nil {
			return err
		}
		if err := ts.ledger.appendEntry(ctx, tx, destinationEntry); err != nil {
			return err
		}

		result = &TransferResult{
			Message:                "Transfer processed successfully.",
			SourceTransaction:      sourceEntry,
			DestinationTransaction: destinationEntry,
		}
		return nil
	})
	if err != nil {
		ts.audit.LogFailure("ADMIN_TRANSFER", sourceID, actorID, req.Amount, err)
		return nil, err
	}

	if !result.Replayed {
		ts.audit.LogMovement("ADMIN_TRANSFER", result.SourceTransaction.Reference, result.SourceTransaction.AccountID,
			actorID, req.Amount, map[string]string{
				"from_account": req.FromAccountNumber,
				"to_account":   req.ToAccountNumber,
			})
	}
	ts.log.Info("[TRANSACTION] admin transfer completed",
		zap.String("reference", result.SourceTransaction.Reference),
		zap.Bool("replayed", result.Replayed))
	return result, nil
}

// ListCustomerTransactions returns the caller's ledger rows, newest first.
func (ts *TransactionService) ListCustomerTransactions(ctx context.Context, userID int) ([]models.Transaction, error) {
	var accountID int
	err := ts.db.QueryRowContext(ctx, `SELECT id FROM accounts WHERE user_id = $1`, userID).Scan(&accountID)
	if err != nil {
		return nil, notFoundOr(err, "find account", "Account not found.")
	}
	return ts.listByAccount(ctx, accountID)
}

func (ts *TransactionService) ListAccountTransactions(ctx context.Context, accountID int) ([]models.Transaction, error) {
	var exists bool
	err := ts.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return nil, internalError("find account", err)
	}
	if !exists {
		return nil, newError(ErrNotFound, "Account not found.")
	}
	return ts.listByAccount(ctx, accountID)
}

// ListAllTransactions returns every ledger row with its account number and
// owner name.
func (ts *TransactionService) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := ts.db.QueryContext(ctx, `
		SELECT t.id, t.account_id, t.transaction_type, t.amount, COALESCE(t.description, ''), COALESCE(t.reference, ''),
		       t.to_account, t.from_account, t.balance_after, t.status, t.performed_by, t.idempotency_key, t.created_at,
		       a.account_number, u.first_name || ' ' || u.last_name
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id
		ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, internalError("list transactions", err)
	}
	defer rows.Close()

	entries := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.TransactionType, &t.Amount, &t.Description, &t.Reference,
			&t.ToAccount, &t.FromAccount, &t.BalanceAfter, &t.Status, &t.PerformedBy, &t.IdempotencyKey, &t.CreatedAt,
			&t.AccountNumber, &t.OwnerName); err != nil {
			return nil, internalError("scan transaction", err)
		}
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("list transactions", err)
	}
	return entries, nil
}

// Status reports whether the ledger store is reachable.
func (ts *TransactionService) Status(ctx context.Context) error {
	if err := ts.db.PingContext(ctx); err != nil {
		return internalError("ping database", err)
	}

	var id int
	err := ts.db.QueryRowContext(ctx, `SELECT id FROM transactions LIMIT 1`).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return internalError("query transactions", err)
	}
	return nil
}

func (ts *TransactionService) listByAccount(ctx context.Context, accountID int) ([]models.Transaction, error) {
	rows, err := ts.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, internalError("list transactions", err)
	}
	defer rows.Close()

	entries, err := scanTransactions(rows)
	if err != nil {
		return nil, internalError("list transactions", err)
	}
	return entries, nil
}

// replayMatch describes the request a stored row must have come from to be
// returned for a repeated Idempotency-Key.
type replayMatch struct {
	txType    string
	amount    decimal.Decimal
	actorID   int
	toAccount *string // compared when set
}

func (m replayMatch) matches(t *models.Transaction) bool {
	if t.TransactionType != m.txType || !t.Amount.Equal(m.amount) || t.PerformedBy != m.actorID {
		return false
	}
	if m.toAccount == nil {
		return true
	}
	return t.ToAccount != nil && *t.ToAccount == *m.toAccount
}

// replayOne returns the stored row when key was already used on accountID by
// an equivalent request. A key reused for a different request is a conflict.
func (ts *TransactionService) replayOne(ctx context.Context, tx *sql.Tx, accountID int, key string, match replayMatch) (*models.Transaction, error) {
	if key == "" {
		return nil, nil
	}
	prior, err := ts.ledger.replay(ctx, tx, accountID, key)
	if err != nil || prior == nil {
		return nil, err
	}
	if !match.matches(prior) {
		ts.log.Warn("[TRANSACTION] idempotency key reused for a different request",
			zap.Int("account_id", accountID), zap.Int("transaction_id", prior.ID))
		return nil, newError(ErrConflict, "Idempotency-Key was already used for a different request")
	}
	ts.log.Info("[TRANSACTION] idempotent replay",
		zap.Int("account_id", accountID), zap.String("reference", prior.Reference))
	return prior, nil
}

// guardIdempotency rejects a second request carrying the same key while the
// first is still running. Completed requests are answered from the ledger, so
// the guard is released as soon as the operation returns.
func (ts *TransactionService) guardIdempotency(ctx context.Context, actorID int, key string) (func(), error) {
	noop := func() {}
	if ts.redis == nil || key == "" {
		return noop, nil
	}

	redisKey := fmt.Sprintf("idem:%d:%s", actorID, key)
	acquired, err := ts.redis.SetNX(ctx, redisKey, "1", ts.idempotencyTTL).Result()
	if err != nil {
		ts.log.Warn("[TRANSACTION] idempotency guard unavailable", zap.Error(err))
		return noop, nil
	}
	if !acquired {
		return nil, newError(ErrConflict, "A request with this Idempotency-Key is already in progress")
	}

	return func() {
		if err := ts.redis.Del(context.Background(), redisKey).Err(); err != nil {
			ts.log.Warn("[TRANSACTION] failed to release idempotency guard", zap.String("key", redisKey), zap.Error(err))
		}
	}, nil
}

func (ts *TransactionService) recordMovement(eventType string, entry *models.Transaction, replayed bool, details map[string]string) {
	if !replayed {
		ts.audit.LogMovement(eventType, entry.Reference, entry.AccountID, entry.PerformedBy, entry.Amount, details)
	}
	ts.log.Info("[TRANSACTION] movement completed",
		zap.String("type", eventType),
		zap.Int("account_id", entry.AccountID),
		zap.String("reference", entry.Reference),
		zap.Bool("replayed", replayed))
}

// validateAmount enforces a positive amount with at most two decimal places.
func validateAmount(amount decimal.Decimal, message string) error {
	if !amount.IsPositive() || amount.GreaterThan(maxAmount) || !amount.Equal(amount.Round(2)) {
		return newError(ErrValidation, "%s", message)
	}
	return nil
}

func beneficiaryAccountNumber(ctx context.Context, q querier, id, accountID int) (string, error) {
	var number string
	err := q.QueryRowContext(ctx,
		`SELECT account_number FROM beneficiaries WHERE id = $1 AND account_id = $2`, id, accountID).Scan(&number)
	return number, err
}

func activeBeneficiary(ctx context.Context, q querier, id, accountID int) (*models.Beneficiary, error) {
	var b models.Beneficiary
	err := q.QueryRowContext(ctx, `
		SELECT id, name, account_number, transfer_limit
		FROM beneficiaries
		WHERE id = $1 AND account_id = $2 AND is_active = TRUE`, id, accountID,
	).Scan(&b.ID, &b.Name, &b.AccountNumber, &b.TransferLimit)
	if err != nil {
		return nil, err
	}
	b.AccountID = accountID
	b.IsActive = true
	return &b, nil
}
