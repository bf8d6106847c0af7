package handlers

import (
	"context"
	"net/http"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
)

type TransactionAPI interface {
	Deposit(ctx context.Context, req services.DepositRequest, actorID int) (*services.MovementResult, error)
	Withdraw(ctx context.Context, req services.WithdrawRequest, actorID int) (*services.MovementResult, error)
	Transfer(ctx context.Context, userID int, req services.TransferRequest) (*services.MovementResult, error)
	AdminTransfer(ctx context.Context, req services.AdminTransferRequest, actorID int) (*services.TransferResult, error)
	ListCustomerTransactions(ctx context.Context, userID int) ([]models.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID int) ([]models.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]models.Transaction, error)
	Status(ctx context.Context) error
}

type PaymentExporter interface {
	ExportTransfer(ctx context.Context, userID, txID int) (*pacs_v08.FIToFICustomerCreditTransferV08, error)
	ConvertToXML(doc any) (string, error)
}

type TransactionHandler struct {
	service  TransactionAPI
	exporter PaymentExporter
}

// StatusResponse reports ledger availability.
type StatusResponse struct {
	Status  string `json:"status" example:"up"`
	Message string `json:"message"`
}

func NewTransactionHandler(service TransactionAPI, exporter PaymentExporter) *TransactionHandler {
	return &TransactionHandler{service: service, exporter: exporter}
}

// Transfer sends money to one of the caller's beneficiaries
// @Summary Transfer to beneficiary
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the stored result when reused"
// @Param request body services.TransferRequest true "Transfer details"
// @Success 200 {object} services.MovementResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /customer/transactions/transfer [post]
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req services.TransferRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}
	req.IdempotencyKey = idempotencyKey(r)

	result, err := h.service.Transfer(r.Context(), callerID(r), req)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, result)
}

// ListMine returns the caller's transactions
// @Summary List own transactions
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/transactions [get]
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListCustomerTransactions(r.Context(), callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, entries)
}

// ExportPacs008 renders an outbound transfer as ISO 20022 XML
// @Summary Export transfer as pacs.008
// @Tags customer
// @Produce xml
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {string} string "pacs.008.001.08 document"
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/transactions/{id}/pacs008 [get]
func (h *TransactionHandler) ExportPacs008(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}

	doc, err := h.exporter.ExportTransfer(r.Context(), callerID(r), id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	out, err := h.exporter.ConvertToXML(doc)
	if err != nil {
		services.SendError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("X-Message-Type", services.Pacs008MessageType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

// Status reports whether the transaction service can reach its store
// @Summary Transaction service status
// @Tags customer
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} StatusResponse
// @Router /customer/transactions/status [get]
func (h *TransactionHandler) Status(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Status(r.Context()); err != nil {
		services.WriteJSON(w, http.StatusInternalServerError, StatusResponse{
			Status:  "down",
			Message: "Transaction service is currently experiencing issues",
		})
		return
	}
	services.WriteJSON(w, http.StatusOK, StatusResponse{Status: "up", Message: "Transaction service is operating normally"})
}

// ListAll returns every ledger row
// @Summary List all transactions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Router /admin/transactions [get]
func (h *TransactionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAllTransactions(r.Context())
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, entries)
}

// ListForAccount returns one account's ledger rows
// @Summary List account transactions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param accountId path int true "Account ID"
// @Success 200 {array} models.Transaction
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/transactions/account/{accountId} [get]
func (h *TransactionHandler) ListForAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		services.SendError(w, err)
		return
	}

	entries, err := h.service.ListAccountTransactions(r.Context(), id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, entries)
}

// Deposit credits an account
// @Summary Deposit
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the stored result when reused"
// @Param request body services.DepositRequest true "Deposit details"
// @Success 200 {object} services.MovementResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/transactions/deposit [post]
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req services.DepositRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}
	req.IdempotencyKey = idempotencyKey(r)

	result, err := h.service.Deposit(r.Context(), req, callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, result)
}

// Withdraw debits an account
// @Summary Withdraw
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the stored result when reused"
// @Param request body services.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} services.MovementResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/transactions/withdraw [post]
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req services.WithdrawRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}
	req.IdempotencyKey = idempotencyKey(r)

	result, err := h.service.Withdraw(r.Context(), req, callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, result)
}

// AdminTransfer moves money between two accounts
// @Summary Transfer between accounts
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the stored result when reused"
// @Param request body services.AdminTransferRequest true "Transfer details"
// @Success 200 {object} services.TransferResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/transactions/transfer [post]
func (h *TransactionHandler) AdminTransfer(w http.ResponseWriter, r *http.Request) {
	var req services.AdminTransferRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}
	req.IdempotencyKey = idempotencyKey(r)

	result, err := h.service.AdminTransfer(r.Context(), req, callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, result)
}
