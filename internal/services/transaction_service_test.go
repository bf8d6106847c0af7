package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransactionService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("new account balance starts at zero and deposit credits it", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "0.00", active: true, version: 1}))
		mock.ExpectExec(updateBalance).
			WithArgs(amount("500.00"), fixedNow, 1, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "deposit", amount("500.00"), "Deposit", sqlmock.AnyArg(), nil, nil,
				amount("500.00"), "completed", 9, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		mock.ExpectCommit()

		result, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount("500.00")}, 9)
		require.NoError(t, err)
		assert.Equal(t, "Deposit processed successfully.", result.Message)
		assert.Equal(t, 100, result.Transaction.ID)
		assert.True(t, result.Transaction.BalanceAfter.Equal(amount("500.00")))
		assert.Regexp(t, `^DEP-[0-9a-f-]{36}$`, result.Transaction.Reference)
		assert.Equal(t, 9, result.Transaction.PerformedBy)
		assert.False(t, result.Replayed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount is rejected before touching the database", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		for _, a := range []string{"0", "-5.00", "1.005"} {
			_, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount(a)}, 9)
			assert.ErrorIs(t, err, ErrValidation, a)
			assert.Equal(t, "Invalid deposit amount.", PublicMessage(err))
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account id fails validation", func(t *testing.T) {
		service, _ := newTestTransactionService(t, nil)

		_, err := service.Deposit(ctx, DepositRequest{Amount: amount("10.00")}, 9)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown account", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(404).WillReturnRows(sqlmock.NewRows(accountCols))
		mock.ExpectRollback()

		_, err := service.Deposit(ctx, DepositRequest{AccountID: 404, Amount: amount("10.00")}, 9)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Account not found.", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive account rolls back", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "0.00", active: false, version: 1}))
		mock.ExpectRollback()

		_, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount("10.00")}, 9)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, 403, StatusCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ledger insert failure rolls back the balance update", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "10.00", active: true, version: 1}))
		mock.ExpectExec(updateBalance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount("10.00")}, 9)
		assert.ErrorIs(t, err, ErrInternal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated idempotency key replays the stored row", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "500.00", active: true, version: 2}))
		mock.ExpectQuery(replayQuery).WithArgs(1, "key-1").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(100, 1, "deposit", "500.00", "Deposit", "DEP-abc", nil, nil, "500.00", "completed", 9, "key-1", fixedNow))
		mock.ExpectCommit()

		result, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount("500.00"), IdempotencyKey: "key-1"}, 9)
		require.NoError(t, err)
		assert.True(t, result.Replayed)
		assert.Equal(t, 100, result.Transaction.ID)
		assert.Equal(t, "DEP-abc", result.Transaction.Reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key reused with a different amount is a conflict", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "500.00", active: true, version: 2}))
		mock.ExpectQuery(replayQuery).WithArgs(1, "key-1").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(100, 1, "deposit", "500.00", "Deposit", "DEP-abc", nil, nil, "500.00", "completed", 9, "key-1", fixedNow))
		mock.ExpectRollback()

		_, err := service.Deposit(ctx, DepositRequest{AccountID: 1, Amount: amount("50.00"), IdempotencyKey: "key-1"}, 9)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 409, StatusCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("successful withdrawal", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "100.00", active: true, kyc: true, version: 3}))
		mock.ExpectExec(updateBalance).
			WithArgs(amount("60.00"), fixedNow, 1, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "withdrawal", amount("40.00"), "ATM", "WDR-1", nil, nil,
				amount("60.00"), "completed", 9, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		result, err := service.Withdraw(ctx, WithdrawRequest{AccountID: 1, Amount: amount("40.00"), Description: "ATM", Reference: "WDR-1"}, 9)
		require.NoError(t, err)
		assert.Equal(t, "Withdrawal processed successfully.", result.Message)
		assert.True(t, result.Transaction.BalanceAfter.Equal(amount("60.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("customer without KYC cannot withdraw", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "100.00", active: true, kyc: false, version: 1}))
		mock.ExpectRollback()

		_, err := service.Withdraw(ctx, WithdrawRequest{AccountID: 1, Amount: amount("10.00")}, 9)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, "KYC verification pending. Withdrawals not allowed.", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance leaves the account untouched", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "60.00", active: true, kyc: true, version: 1}))
		mock.ExpectRollback()

		_, err := service.Withdraw(ctx, WithdrawRequest{AccountID: 1, Amount: amount("60.01")}, 9)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, 400, StatusCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost update is reported as a conflict", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).
			WillReturnRows(accountRows(testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "100.00", active: true, kyc: true, version: 1}))
		mock.ExpectExec(updateBalance).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := service.Withdraw(ctx, WithdrawRequest{AccountID: 1, Amount: amount("60.00")}, 9)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 409, StatusCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionService_Transfer(t *testing.T) {
	ctx := context.Background()
	beneficiaryQuery := `SELECT id, name, account_number, transfer_limit FROM beneficiaries WHERE id = \$1 AND account_id = \$2 AND is_active = TRUE`
	payeeQuery := `SELECT account_number FROM beneficiaries WHERE id = \$1 AND account_id = \$2`
	caller := testAccount{id: 1, userID: 5, number: "1000000000000001", balance: "1000.00", active: true, kyc: true, version: 1}

	t.Run("debits the caller and records one row", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(beneficiaryQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "account_number", "transfer_limit"}).
				AddRow(3, "Jane Smith", "5678901234", "500.00"))
		mock.ExpectExec(updateBalance).
			WithArgs(amount("750.00"), fixedNow, 1, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "transfer", amount("250.00"), "Transfer to Jane Smith", sqlmock.AnyArg(),
				"5678901234", "1000000000000001", amount("750.00"), "completed", 5, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		result, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("250.00")})
		require.NoError(t, err)
		assert.Equal(t, "Transfer completed successfully.", result.Message)
		assert.Equal(t, "5678901234", *result.Transaction.ToAccount)
		assert.Equal(t, "1000000000000001", *result.Transaction.FromAccount)
		assert.Regexp(t, `^TRF-`, result.Transaction.Reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("amount above the beneficiary limit", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(beneficiaryQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "account_number", "transfer_limit"}).
				AddRow(3, "Jane Smith", "5678901234", "100.00"))
		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("100.01")})
		assert.ErrorIs(t, err, ErrLimitExceeded)
		assert.Equal(t, "Transfer amount exceeds beneficiary limit of 100.00.", PublicMessage(err))
		assert.Equal(t, 403, StatusCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("beneficiary owned by someone else is not found", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(beneficiaryQuery).WithArgs(99, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "account_number", "transfer_limit"}))
		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 99, Amount: amount("1.00")})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Beneficiary not found or inactive.", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending KYC blocks transfers", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		pending := caller
		pending.kyc = false

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(pending))
		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("1.00")})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate is rejected by the redis guard", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		service, mock := newTestTransactionService(t, rdb)

		rmock.ExpectSetNX("idem:5:key-7", "1", 30*time.Second).SetVal(false)

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("1.00"), IdempotencyKey: "key-7"})
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("redis guard is released after the transfer", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		service, mock := newTestTransactionService(t, rdb)

		rmock.ExpectSetNX("idem:5:key-8", "1", 30*time.Second).SetVal(true)
		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(payeeQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("5678901234"))
		mock.ExpectQuery(replayQuery).WithArgs(1, "key-8").WillReturnRows(sqlmock.NewRows(transactionCols))
		mock.ExpectQuery(beneficiaryQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "account_number", "transfer_limit"}).
				AddRow(3, "Jane Smith", "5678901234", "500.00"))
		mock.ExpectExec(updateBalance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "transfer", amount("10.00"), "Transfer to Jane Smith", sqlmock.AnyArg(),
				"5678901234", "1000000000000001", amount("990.00"), "completed", 5, "key-8", fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(13))
		mock.ExpectCommit()
		rmock.ExpectDel("idem:5:key-8").SetVal(1)

		result, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("10.00"), IdempotencyKey: "key-8"})
		require.NoError(t, err)
		assert.False(t, result.Replayed)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("insufficient balance leaves the account untouched", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		poor := caller
		poor.balance = "40.00"

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(poor))
		mock.ExpectQuery(beneficiaryQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "account_number", "transfer_limit"}).
				AddRow(3, "Jane Smith", "5678901234", "500.00"))
		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("40.01")})
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, "Insufficient balance.", PublicMessage(err))
		assert.Equal(t, 400, StatusCode(err))
		// no balance update and no ledger row were expected
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays the stored transfer", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(payeeQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("5678901234"))
		mock.ExpectQuery(replayQuery).WithArgs(1, "key-9").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(12, 1, "transfer", "250.00", "Transfer to Jane Smith", "TRF-abc", "5678901234", "1000000000000001",
					"750.00", "completed", 5, "key-9", fixedNow))
		mock.ExpectCommit()

		result, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("250.00"), IdempotencyKey: "key-9"})
		require.NoError(t, err)
		assert.True(t, result.Replayed)
		assert.Equal(t, 12, result.Transaction.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key already used by a deposit on the account is a conflict", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(payeeQuery).WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("5678901234"))
		mock.ExpectQuery(replayQuery).WithArgs(1, "1").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(40, 1, "deposit", "1000.00", "Deposit", "DEP-xyz", nil, nil, "1000.00", "completed", 9, "1", fixedNow))
		mock.ExpectRollback()

		result, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 3, Amount: amount("250.00"), IdempotencyKey: "1"})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "Idempotency-Key was already used for a different request", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key reused towards a different payee is a conflict", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockByUserQuery).WithArgs(5).WillReturnRows(accountRows(caller))
		mock.ExpectQuery(payeeQuery).WithArgs(4, 1).
			WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("1111222233"))
		mock.ExpectQuery(replayQuery).WithArgs(1, "key-9").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(12, 1, "transfer", "250.00", "Transfer to Jane Smith", "TRF-abc", "5678901234", "1000000000000001",
					"750.00", "completed", 5, "key-9", fixedNow))
		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 5, TransferRequest{BeneficiaryID: 4, Amount: amount("250.00"), IdempotencyKey: "key-9"})
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionService_AdminTransfer(t *testing.T) {
	ctx := context.Background()
	resolveQuery := `SELECT id FROM accounts WHERE account_number = \$1`
	source := testAccount{id: 2, userID: 20, number: "2000000000000002", balance: "300.00", active: true, kyc: true, version: 5}
	destination := testAccount{id: 1, userID: 10, number: "1000000000000001", balance: "50.00", active: true, kyc: false, version: 1}

	t.Run("writes both sides under one reference", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectExec(updateBalance).WithArgs(amount("200.00"), fixedNow, 2, 5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateBalance).WithArgs(amount("150.00"), fixedNow, 1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(2, "transfer", amount("100.00"), "Transfer out", "TRF-REF", destination.number, source.number,
				amount("200.00"), "completed", 9, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "transfer", amount("100.00"), "Transfer in", "TRF-REF", destination.number, source.number,
				amount("150.00"), "completed", 9, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectCommit()

		result, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("100.00"),
			Reference:         "TRF-REF",
		}, 9)
		require.NoError(t, err)
		assert.Equal(t, 20, result.SourceTransaction.ID)
		assert.Equal(t, 21, result.DestinationTransaction.ID)
		assert.Equal(t, result.SourceTransaction.Reference, result.DestinationTransaction.Reference)
		assert.True(t, result.SourceTransaction.BalanceAfter.Equal(amount("200.00")))
		assert.True(t, result.DestinationTransaction.BalanceAfter.Equal(amount("150.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same account on both sides is invalid", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		_, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   source.number,
			Amount:            amount("1.00"),
		}, 9)
		assert.ErrorIs(t, err, ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown destination", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs("9999999999999999").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   "9999999999999999",
			Amount:            amount("1.00"),
		}, 9)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Destination account not found.", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient source balance writes nothing", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectRollback()

		_, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("300.01"),
		}, 9)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, "Insufficient balance in source account.", PublicMessage(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second side failing rolls back the first", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectExec(updateBalance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateBalance).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
		mock.ExpectQuery(insertLedgerRow).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("100.00"),
		}, 9)
		assert.ErrorIs(t, err, ErrInternal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("idempotency key is stored on the debit row only", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectQuery(replayQuery).WithArgs(2, "adm-1").WillReturnRows(sqlmock.NewRows(transactionCols))
		mock.ExpectExec(updateBalance).WithArgs(amount("200.00"), fixedNow, 2, 5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateBalance).WithArgs(amount("150.00"), fixedNow, 1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(2, "transfer", amount("100.00"), "Transfer out", "TRF-REF", destination.number, source.number,
				amount("200.00"), "completed", 9, "adm-1", fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
		mock.ExpectQuery(insertLedgerRow).
			WithArgs(1, "transfer", amount("100.00"), "Transfer in", "TRF-REF", destination.number, source.number,
				amount("150.00"), "completed", 9, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectCommit()

		result, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("100.00"),
			Reference:         "TRF-REF",
			IdempotencyKey:    "adm-1",
		}, 9)
		require.NoError(t, err)
		assert.Nil(t, result.DestinationTransaction.IdempotencyKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays both rows", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectQuery(replayQuery).WithArgs(2, "adm-1").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(20, 2, "transfer", "100.00", "Transfer out", "TRF-REF", destination.number, source.number,
					"200.00", "completed", 9, "adm-1", fixedNow))
		mock.ExpectQuery(counterpartQuery).WithArgs(1, "TRF-REF", fixedNow, 9, "transfer").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(21, 1, "transfer", "100.00", "Transfer in", "TRF-REF", destination.number, source.number,
					"150.00", "completed", 9, nil, fixedNow))
		mock.ExpectCommit()

		result, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("100.00"),
			IdempotencyKey:    "adm-1",
		}, 9)
		require.NoError(t, err)
		assert.True(t, result.Replayed)
		require.NotNil(t, result.SourceTransaction)
		require.NotNil(t, result.DestinationTransaction)
		assert.Equal(t, 20, result.SourceTransaction.ID)
		assert.Equal(t, 21, result.DestinationTransaction.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key used by the account owner for another request is a conflict", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(resolveQuery).WithArgs(source.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(resolveQuery).WithArgs(destination.number).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(lockByIDQuery).WithArgs(1).WillReturnRows(accountRows(destination))
		mock.ExpectQuery(lockByIDQuery).WithArgs(2).WillReturnRows(accountRows(source))
		mock.ExpectQuery(replayQuery).WithArgs(2, "adm-1").
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(30, 2, "transfer", "100.00", "Transfer to Jane Smith", "TRF-own", "5678901234", source.number,
					"200.00", "completed", 20, "adm-1", fixedNow))
		mock.ExpectRollback()

		_, err := service.AdminTransfer(ctx, AdminTransferRequest{
			FromAccountNumber: source.number,
			ToAccountNumber:   destination.number,
			Amount:            amount("100.00"),
			IdempotencyKey:    "adm-1",
		}, 9)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionService_Listing(t *testing.T) {
	ctx := context.Background()

	t.Run("customer without an account", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := service.ListCustomerTransactions(ctx, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("customer rows newest first", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		mock.ExpectQuery(`SELECT id FROM accounts WHERE user_id = \$1`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`FROM transactions WHERE account_id = \$1 ORDER BY created_at DESC, id DESC`).WithArgs(1).
			WillReturnRows(sqlmock.NewRows(transactionCols).
				AddRow(2, 1, "withdrawal", "10.00", "ATM", "WDR-2", nil, nil, "90.00", "completed", 9, nil, fixedNow).
				AddRow(1, 1, "deposit", "100.00", "Deposit", "DEP-1", nil, nil, "100.00", "completed", 9, nil, fixedNow.Add(-time.Hour)))

		entries, err := service.ListCustomerTransactions(ctx, 5)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 2, entries[0].ID)
		assert.True(t, entries[1].BalanceAfter.Equal(amount("100.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin listing carries owner details", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		cols := append(append([]string{}, transactionCols...), "account_number", "owner_name")
		mock.ExpectQuery(`FROM transactions t JOIN accounts a ON a.id = t.account_id JOIN users u ON u.id = a.user_id`).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, 1, "deposit", "100.00", "Deposit", "DEP-1", nil, nil, "100.00", "completed", 9, nil, fixedNow,
					"1000000000000001", "John Doe"))

		entries, err := service.ListAllTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "John Doe", entries[0].OwnerName)
		assert.Equal(t, "1000000000000001", entries[0].AccountNumber)
	})

	t.Run("admin listing for an unknown account", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM accounts WHERE id = \$1\)`).WithArgs(8).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := service.ListAccountTransactions(ctx, 8)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger is up", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		mock.ExpectQuery(`SELECT id FROM transactions LIMIT 1`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		assert.NoError(t, service.Status(ctx))
	})

	t.Run("query failure is down", func(t *testing.T) {
		service, mock := newTestTransactionService(t, nil)
		mock.ExpectQuery(`SELECT id FROM transactions LIMIT 1`).WillReturnError(errors.New("relation does not exist"))

		assert.ErrorIs(t, service.Status(ctx), ErrInternal)
	})
}
