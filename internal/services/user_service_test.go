package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userWithAccountCols = []string{
	"id", "first_name", "last_name", "email", "phone_number", "address", "city", "state", "zip_code",
	"role", "is_active", "last_login", "created_at", "updated_at",
	"account_number", "account_type", "balance", "is_active", "kyc_verified",
}

func newTestUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	ledger, mock := newTestDB(t)
	return NewUserService(ledger.db, NewPasswordHasher(testArgon2)), mock
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("customer with account", func(t *testing.T) {
		service, mock := newTestUserService(t)
		mock.ExpectQuery(`LEFT JOIN accounts a ON a.user_id = u.id WHERE u.id = \$1`).WithArgs(1).
			WillReturnRows(sqlmock.NewRows(userWithAccountCols).
				AddRow(1, "Ada", "Byron", "a@b.com", "+15555550100", "1 Main St", "Springfield", "IL", "62701",
					"customer", true, nil, fixedNow, fixedNow,
					"4532015112830366", "savings", "250.50", true, true))

		user, err := service.GetProfile(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, user.Account)
		assert.Equal(t, "4532015112830366", user.Account.AccountNumber)
		assert.True(t, user.Account.Balance.Equal(amount("250.50")))
		assert.Empty(t, user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin without account", func(t *testing.T) {
		service, mock := newTestUserService(t)
		mock.ExpectQuery(`WHERE u.id = \$1`).WithArgs(2).
			WillReturnRows(sqlmock.NewRows(userWithAccountCols).
				AddRow(2, "Root", "Admin", "admin@example.com", "", "", "", "", "",
					"admin", true, fixedNow, fixedNow, fixedNow,
					nil, nil, nil, nil, nil))

		user, err := service.GetProfile(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, user.Account)
		require.NotNil(t, user.LastLogin)
	})

	t.Run("missing user", func(t *testing.T) {
		service, mock := newTestUserService(t)
		mock.ExpectQuery(`WHERE u.id = \$1`).WithArgs(9).WillReturnRows(sqlmock.NewRows(userWithAccountCols))

		_, err := service.GetProfile(ctx, 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserService_ListCustomers(t *testing.T) {
	service, mock := newTestUserService(t)
	mock.ExpectQuery(`WHERE u.role = \$1 ORDER BY u.id`).WithArgs("customer").
		WillReturnRows(sqlmock.NewRows(userWithAccountCols).
			AddRow(1, "Ada", "Byron", "a@b.com", "", "", "", "", "", "customer", true, nil, fixedNow, fixedNow,
				"4532015112830366", "savings", "0.00", true, false).
			AddRow(3, "Alan", "Turing", "t@b.com", "", "", "", "", "", "customer", true, nil, fixedNow, fixedNow,
				"4532015112830367", "checking", "10.00", true, true))

	users, err := service.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "checking", users[1].Account.AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("columns follow a fixed order", func(t *testing.T) {
		service, mock := newTestUserService(t)
		first, city := "Augusta", "London"
		mock.ExpectExec(`UPDATE users SET first_name = \$1, city = \$2, updated_at = \$3 WHERE id = \$4`).
			WithArgs("Augusta", "London", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := service.UpdateProfile(ctx, 1, UpdateProfileRequest{FirstName: &first, City: &city})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		service, mock := newTestUserService(t)
		password := "newpass99"
		var stored string
		mock.ExpectExec(`UPDATE users SET password = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs(captureArg{&stored}, sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, service.UpdateProfile(ctx, 1, UpdateProfileRequest{Password: &password}))
		assert.NotEqual(t, password, stored)
		assert.True(t, service.hasher.Verify(password, stored))
	})

	t.Run("weak password", func(t *testing.T) {
		service, mock := newTestUserService(t)
		password := "short"

		err := service.UpdateProfile(ctx, 1, UpdateProfileRequest{Password: &password})
		assert.ErrorIs(t, err, ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to update", func(t *testing.T) {
		service, _ := newTestUserService(t)

		err := service.UpdateProfile(ctx, 1, UpdateProfileRequest{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("deleted user", func(t *testing.T) {
		service, mock := newTestUserService(t)
		zip := "10001"
		mock.ExpectExec(`UPDATE users SET zip_code = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.UpdateProfile(ctx, 1, UpdateProfileRequest{ZipCode: &zip})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
