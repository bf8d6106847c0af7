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

const beneficiaryColumns = `id, account_id, name, account_number, bank_name, transfer_limit, nickname, is_active, created_at, updated_at`

// BeneficiaryService manages the payees a customer may transfer to. Every
// lookup is scoped to the caller's account, so foreign ids read as not found.
type BeneficiaryService struct {
	db        *sql.DB
	validator *ValidationHelper
	log       *zap.Logger
}

// CreateBeneficiaryRequest registers a payee.
// @Description Beneficiary creation request
type CreateBeneficiaryRequest struct {
	Name          string           `json:"name" validate:"required,max=255" example:"Jane Smith"`
	AccountNumber string           `json:"accountNumber" validate:"required,max=64" example:"5678901234"`
	BankName      string           `json:"bankName" validate:"required,max=255" example:"Chase Bank"`
	TransferLimit *decimal.Decimal `json:"transferLimit,omitempty" swaggertype:"string" example:"10000.00"`
	Nickname      *string          `json:"nickname,omitempty" validate:"omitempty,max=100" example:"Jane"`
}

// UpdateBeneficiaryRequest changes any subset of the editable fields.
// @Description Beneficiary update request
type UpdateBeneficiaryRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	BankName      *string          `json:"bankName,omitempty" validate:"omitempty,min=1,max=255"`
	TransferLimit *decimal.Decimal `json:"transferLimit,omitempty" swaggertype:"string"`
	Nickname      *string          `json:"nickname,omitempty" validate:"omitempty,max=100"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

func NewBeneficiaryService(db *sql.DB) *BeneficiaryService {
	return &BeneficiaryService{
		db:        db,
		validator: NewValidationHelper(),
		log:       logger.L().Named("beneficiaries"),
	}
}

// List returns the caller's beneficiaries. Soft-deleted rows are only
// included on request.
func (s *BeneficiaryService) List(ctx context.Context, userID int, includeInactive bool) ([]models.Beneficiary, error) {
	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE account_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, internalError("list beneficiaries", err)
	}
	defer rows.Close()

	beneficiaries := []models.Beneficiary{}
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, internalError("scan beneficiary", err)
		}
		beneficiaries = append(beneficiaries, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("list beneficiaries", err)
	}
	return beneficiaries, nil
}

func (s *BeneficiaryService) Get(ctx context.Context, userID, id int) (*models.Beneficiary, error) {
	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := scanBeneficiary(s.db.QueryRowContext(ctx,
		`SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE id = $1 AND account_id = $2`, id, accountID))
	if err != nil {
		return nil, notFoundOr(err, "load beneficiary", "Beneficiary not found.")
	}
	return b, nil
}

func (s *BeneficiaryService) Create(ctx context.Context, userID int, req CreateBeneficiaryRequest) (*models.Beneficiary, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	limit := models.DefaultTransferLimit
	if req.TransferLimit != nil {
		limit = *req.TransferLimit
	}
	if err := validateAmount(limit, "Transfer limit must be a positive amount."); err != nil {
		return nil, err
	}

	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := scanBeneficiary(s.db.QueryRowContext(ctx, `
		INSERT INTO beneficiaries (account_id, name, account_number, bank_name, transfer_limit, nickname)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+beneficiaryColumns,
		accountID, req.Name, req.AccountNumber, req.BankName, limit, req.Nickname))
	if err != nil {
		return nil, internalError("insert beneficiary", err)
	}

	s.log.Info("[BENEFICIARY] added", zap.Int("account_id", accountID), zap.Int("beneficiary_id", b.ID))
	return b, nil
}

func (s *BeneficiaryService) Update(ctx context.Context, userID, id int, req UpdateBeneficiaryRequest) (*models.Beneficiary, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	if req.TransferLimit != nil {
		if err := validateAmount(*req.TransferLimit, "Transfer limit must be a positive amount."); err != nil {
			return nil, err
		}
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.BankName != nil {
		set("bank_name", *req.BankName)
	}
	if req.TransferLimit != nil {
		set("transfer_limit", *req.TransferLimit)
	}
	if req.Nickname != nil {
		set("nickname", *req.Nickname)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return nil, newError(ErrValidation, "No valid fields to update")
	}

	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	set("updated_at", nowUTC())
	args = append(args, id, accountID)
	query := fmt.Sprintf(`UPDATE beneficiaries SET %s WHERE id = $%d AND account_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), beneficiaryColumns)

	b, err := scanBeneficiary(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, "update beneficiary", "Beneficiary not found.")
	}
	return b, nil
}

// Delete deactivates the beneficiary. Ledger rows keep referring to it.
func (s *BeneficiaryService) Delete(ctx context.Context, userID, id int) error {
	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE beneficiaries SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND account_id = $3`,
		nowUTC(), id, accountID)
	if err != nil {
		return internalError("delete beneficiary", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return internalError("delete beneficiary", err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Beneficiary not found.")
	}

	s.log.Info("[BENEFICIARY] deactivated", zap.Int("account_id", accountID), zap.Int("beneficiary_id", id))
	return nil
}

func (s *BeneficiaryService) accountIDForUser(ctx context.Context, userID int) (int, error) {
	var accountID int
	err := s.db.QueryRowContext(ctx, `SELECT id FROM accounts WHERE user_id = $1`, userID).Scan(&accountID)
	if err != nil {
		return 0, notFoundOr(err, "find account", "Account not found.")
	}
	return accountID, nil
}

func scanBeneficiary(row rowScanner) (*models.Beneficiary, error) {
	var b models.Beneficiary
	err := row.Scan(&b.ID, &b.AccountID, &b.Name, &b.AccountNumber, &b.BankName, &b.TransferLimit,
		&b.Nickname, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
