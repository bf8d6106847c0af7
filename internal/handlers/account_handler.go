package handlers

import (
	"context"
	"net/http"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
)

type AccountAPI interface {
	GetCustomerAccount(ctx context.Context, userID int) (*models.Account, error)
	GetAccount(ctx context.Context, id int) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	OpenAccount(ctx context.Context, req services.OpenAccountRequest, actorID int) (*models.Account, error)
	SetKYC(ctx context.Context, id int, verified bool) error
	SetStatus(ctx context.Context, id int, active bool) error
}

type QRAPI interface {
	AccountQRCode(ctx context.Context, userID int) (*services.AccountQRResponse, error)
}

type AccountHandler struct {
	accounts AccountAPI
	qr       QRAPI
}

// OpenAccountResponse wraps a newly opened account.
type OpenAccountResponse struct {
	Message string          `json:"message" example:"Account created successfully"`
	Account *models.Account `json:"account"`
}

// KYCRequest sets the KYC flag.
type KYCRequest struct {
	KYCVerified *bool `json:"kycVerified" validate:"required"`
}

// StatusRequest sets the active flag.
type StatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func NewAccountHandler(accounts AccountAPI, qr QRAPI) *AccountHandler {
	return &AccountHandler{accounts: accounts, qr: qr}
}

// GetMyAccount returns the caller's account
// @Summary Get own account
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/account [get]
func (h *AccountHandler) GetMyAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetCustomerAccount(r.Context(), callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, account)
}

// GetMyAccountQR renders the caller's account as a QR code
// @Summary Account QR code
// @Description PNG (base64) QR code a payer can scan to register this account as a beneficiary
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.AccountQRResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/account/qr [get]
func (h *AccountHandler) GetMyAccountQR(w http.ResponseWriter, r *http.Request) {
	resp, err := h.qr.AccountQRCode(r.Context(), callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, resp)
}

// ListAccounts returns every account
// @Summary List accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Account
// @Router /admin/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, accounts)
}

// GetAccount returns one account with its owner
// @Summary Get account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/accounts/{id} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, account)
}

// OpenAccount opens an account for an existing user
// @Summary Open account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.OpenAccountRequest true "Account details"
// @Success 201 {object} OpenAccountResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/accounts [post]
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req services.OpenAccountRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	account, err := h.accounts.OpenAccount(r.Context(), req, callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusCreated, OpenAccountResponse{Message: "Account created successfully", Account: account})
}

// SetKYC updates the KYC flag
// @Summary Update KYC status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body KYCRequest true "KYC flag"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/accounts/{id}/kyc [put]
func (h *AccountHandler) SetKYC(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}
	var req KYCRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	if err := h.accounts.SetKYC(r.Context(), id, *req.KYCVerified); err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "KYC status updated successfully."})
}

// SetStatus activates or deactivates an account
// @Summary Update account status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body StatusRequest true "Active flag"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/accounts/{id}/status [put]
func (h *AccountHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}
	var req StatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	if err := h.accounts.SetStatus(r.Context(), id, *req.IsActive); err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Account status updated successfully."})
}
