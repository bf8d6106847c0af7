package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redis/v8"
	"github.com/ledgerline/backend/internal/audit"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var accountCols = []string{
	"id", "user_id", "account_number", "account_type", "balance", "is_active",
	"kyc_verified", "version", "date_opened", "last_activity", "created_at", "updated_at",
}

var transactionCols = []string{
	"id", "account_id", "transaction_type", "amount", "description", "reference",
	"to_account", "from_account", "balance_after", "status", "performed_by", "idempotency_key", "created_at",
}

const (
	lockByIDQuery    = `SELECT (.+) FROM accounts WHERE id = \$1 FOR UPDATE`
	lockByUserQuery  = `SELECT (.+) FROM accounts WHERE user_id = \$1 FOR UPDATE`
	updateBalance    = `UPDATE accounts SET balance = \$1, version = version \+ 1, last_activity = \$2, updated_at = \$2 WHERE id = \$3 AND version = \$4`
	insertLedgerRow  = `INSERT INTO transactions`
	replayQuery      = `FROM transactions WHERE account_id = \$1 AND idempotency_key = \$2`
	counterpartQuery = `FROM transactions WHERE account_id = \$1 AND reference = \$2 AND created_at = \$3 AND performed_by = \$4 AND transaction_type = \$5 AND idempotency_key IS NULL`
)

type testAccount struct {
	id      int
	userID  int
	number  string
	balance string
	active  bool
	kyc     bool
	version int
}

func accountRows(accounts ...testAccount) *sqlmock.Rows {
	rows := sqlmock.NewRows(accountCols)
	for _, a := range accounts {
		rows.AddRow(a.id, a.userID, a.number, "savings", a.balance, a.active, a.kyc, a.version,
			fixedNow, fixedNow, fixedNow, fixedNow)
	}
	return rows
}

func newTestDB(t *testing.T) (*LedgerService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ledger := NewLedgerService(db, time.Second)
	ledger.now = func() time.Time { return fixedNow }
	return ledger, mock
}

func newTestTransactionService(t *testing.T, rdb *redis.Client) (*TransactionService, sqlmock.Sqlmock) {
	t.Helper()
	ledger, mock := newTestDB(t)
	service := NewTransactionService(ledger.db, rdb, ledger, audit.NewLogger(zap.NewNop()), 30*time.Second)
	return service, mock
}
