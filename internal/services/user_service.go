package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const userWithAccountSelect = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.phone_number, u.address, u.city, u.state, u.zip_code,
	       u.role, u.is_active, u.last_login, u.created_at, u.updated_at,
	       a.account_number, a.account_type, a.balance, a.is_active, a.kyc_verified
	FROM users u
	LEFT JOIN accounts a ON a.user_id = u.id`

type UserService struct {
	db        *sql.DB
	hasher    *PasswordHasher
	validator *ValidationHelper
	log       *zap.Logger
}

// UpdateProfileRequest changes any subset of the caller's profile.
// @Description Profile update request
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,min=1,max=32"`
	Address     *string `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	City        *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	ZipCode     *string `json:"zipCode,omitempty" validate:"omitempty,min=1,max=20"`
	Password    *string `json:"password,omitempty" validate:"omitempty,password"`
}

func NewUserService(db *sql.DB, hasher *PasswordHasher) *UserService {
	return &UserService{
		db:        db,
		hasher:    hasher,
		validator: NewValidationHelper(),
		log:       logger.L().Named("users"),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.GetUser(ctx, userID)
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := scanUserWithAccount(s.db.QueryRowContext(ctx, userWithAccountSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "load user", "User not found.")
	}
	return user, nil
}

// ListCustomers returns every customer with their account summary.
func (s *UserService) ListCustomers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, userWithAccountSelect+` WHERE u.role = $1 ORDER BY u.id`, models.RoleCustomer)
	if err != nil {
		return nil, internalError("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUserWithAccount(rows)
		if err != nil {
			return nil, internalError("scan user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("list users", err)
	}
	return users, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) error {
	if err := s.validator.Validate(&req); err != nil {
		return err
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	fields := []struct {
		column string
		value  *string
	}{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"phone_number", req.PhoneNumber},
		{"address", req.Address},
		{"city", req.City},
		{"state", req.State},
		{"zip_code", req.ZipCode},
	}
	for _, f := range fields {
		if f.value != nil {
			set(f.column, *f.value)
		}
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return internalError("hash password", err)
		}
		set("password", hash)
	}
	if len(sets) == 0 {
		return newError(ErrValidation, "No valid fields to update")
	}

	set("updated_at", nowUTC())
	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return internalError("update user", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return internalError("update user", err)
	}
	if n == 0 {
		return newError(ErrNotFound, "User not found.")
	}

	s.log.Info("[USER] profile updated", zap.Int("user_id", userID), zap.Int("fields", len(sets)-1))
	return nil
}

func scanUserWithAccount(row rowScanner) (*models.User, error) {
	var u models.User
	var number, accountType sql.NullString
	var balance decimal.NullDecimal
	var active, kyc sql.NullBool
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.Address, &u.City, &u.State, &u.ZipCode,
		&u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
		&number, &accountType, &balance, &active, &kyc)
	if err != nil {
		return nil, err
	}
	if number.Valid {
		u.Account = &models.AccountSummary{
			AccountNumber: number.String,
			AccountType:   accountType.String,
			Balance:       balance.Decimal,
			IsActive:      active.Bool,
			KYCVerified:   kyc.Bool,
		}
	}
	return &u, nil
}
