package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, account_number, account_type, balance, is_active, kyc_verified, version, date_opened, last_activity, created_at, updated_at`

const transactionColumns = `id, account_id, transaction_type, amount, COALESCE(description, ''), COALESCE(reference, ''), to_account, from_account, balance_after, status, performed_by, idempotency_key, created_at`

// LedgerService owns the primitives every balance mutation is built from:
// a bounded transaction, row locks, compare-and-swap balance writes and
// append-only ledger rows.
type LedgerService struct {
	db        *sql.DB
	txTimeout time.Duration
	now       func() time.Time
}

func NewLedgerService(db *sql.DB, txTimeout time.Duration) *LedgerService {
	if txTimeout <= 0 {
		txTimeout = 10 * time.Second
	}
	return &LedgerService{
		db:        db,
		txTimeout: txTimeout,
		now:       nowUTC,
	}
}

// RunInTx runs fn inside one READ COMMITTED transaction with a deadline.
// Balance reads in fn must go through the lock helpers so that concurrent
// writers to the same account serialize on the row lock.
func (s *LedgerService) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return internalError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return internalError("commit transaction", err)
	}
	return nil
}

func (s *LedgerService) lockAccountByID(ctx context.Context, tx *sql.Tx, id int) (*models.Account, error) {
	return scanAccount(tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
}

func (s *LedgerService) lockAccountByUser(ctx context.Context, tx *sql.Tx, userID int) (*models.Account, error) {
	return scanAccount(tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 FOR UPDATE`, userID))
}

// accountIDByNumber resolves a number without locking; callers lock by id in
// a consistent order afterwards.
func (s *LedgerService) accountIDByNumber(ctx context.Context, tx *sql.Tx, number string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE account_number = $1`, number).Scan(&id)
	return id, err
}

// lockPair locks two accounts in ascending id order to avoid deadlocks
// between opposite transfers.
func (s *LedgerService) lockPair(ctx context.Context, tx *sql.Tx, fromID, toID int) (from, to *models.Account, err error) {
	firstID, secondID := fromID, toID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.lockAccountByID(ctx, tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.lockAccountByID(ctx, tx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

// updateAccountBalance writes the new balance only if nobody else bumped the
// version since the row was read.
func (s *LedgerService) updateAccountBalance(ctx context.Context, tx *sql.Tx, account *models.Account, newBalance decimal.Decimal, at time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, version = version + 1, last_activity = $2, updated_at = $2
		WHERE id = $3 AND version = $4`,
		newBalance, at, account.ID, account.Version)
	if err != nil {
		return internalError("update balance", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return internalError("update balance", err)
	}
	if rowsAffected == 0 {
		return newError(ErrConflict, "Account %s was modified concurrently, please retry", account.AccountNumber)
	}

	account.Balance = newBalance
	account.Version++
	account.LastActivity = at
	account.UpdatedAt = at
	return nil
}

// appendEntry inserts one ledger row and fills in its id.
func (s *LedgerService) appendEntry(ctx context.Context, tx *sql.Tx, entry *models.Transaction) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions
		(account_id, transaction_type, amount, description, reference, to_account, from_account, balance_after, status, performed_by, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		entry.AccountID, entry.TransactionType, entry.Amount, entry.Description, entry.Reference,
		entry.ToAccount, entry.FromAccount, entry.BalanceAfter, entry.Status, entry.PerformedBy,
		entry.IdempotencyKey, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return newError(ErrConflict, "A request with this Idempotency-Key was already processed")
		}
		return internalError("insert ledger row", err)
	}
	return nil
}

// replay returns the row previously written on accountID under key, or nil
// when the key is unused on that account.
func (s *LedgerService) replay(ctx context.Context, tx *sql.Tx, accountID int, key string) (*models.Transaction, error) {
	entry, err := scanTransaction(tx.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND idempotency_key = $2`, accountID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, internalError("lookup idempotency key", err)
	}
	return entry, nil
}

// counterpart returns the credit row written on accountID together with the
// debit row of a two-sided transfer.
func (s *LedgerService) counterpart(ctx context.Context, tx *sql.Tx, debit *models.Transaction, accountID int) (*models.Transaction, error) {
	entry, err := scanTransaction(tx.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND reference = $2 AND created_at = $3 AND performed_by = $4
		  AND transaction_type = $5 AND idempotency_key IS NULL
		ORDER BY id
		LIMIT 1`,
		accountID, debit.Reference, debit.CreatedAt, debit.PerformedBy, models.TransactionTypeTransfer))
	if err != nil {
		return nil, internalError("load transfer counterpart", err)
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.IsActive,
		&a.KYCVerified, &a.Version, &a.DateOpened, &a.LastActivity, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.TransactionType, &t.Amount, &t.Description, &t.Reference,
		&t.ToAccount, &t.FromAccount, &t.BalanceAfter, &t.Status, &t.PerformedBy, &t.IdempotencyKey, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	entries := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *t)
	}
	return entries, rows.Err()
}

// notFoundOr turns sql.ErrNoRows into ErrNotFound with msg and anything else
// into an internal error.
func notFoundOr(err error, op, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return newError(ErrNotFound, "%s", msg)
	}
	return internalError(op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func describe(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}

func referenceOr(given, prefix string, id fmt.Stringer) string {
	if given != "" {
		return given
	}
	return prefix + "-" + id.String()
}
