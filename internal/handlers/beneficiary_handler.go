package handlers

import (
	"context"
	"net/http"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
)

type BeneficiaryAPI interface {
	List(ctx context.Context, userID int, includeInactive bool) ([]models.Beneficiary, error)
	Get(ctx context.Context, userID, id int) (*models.Beneficiary, error)
	Create(ctx context.Context, userID int, req services.CreateBeneficiaryRequest) (*models.Beneficiary, error)
	Update(ctx context.Context, userID, id int, req services.UpdateBeneficiaryRequest) (*models.Beneficiary, error)
	Delete(ctx context.Context, userID, id int) error
}

type BeneficiaryHandler struct {
	service BeneficiaryAPI
}

// BeneficiaryResponse wraps a created or updated beneficiary.
type BeneficiaryResponse struct {
	Message     string              `json:"message" example:"Beneficiary added successfully."`
	Beneficiary *models.Beneficiary `json:"beneficiary"`
}

func NewBeneficiaryHandler(service BeneficiaryAPI) *BeneficiaryHandler {
	return &BeneficiaryHandler{service: service}
}

// List returns the caller's beneficiaries
// @Summary List beneficiaries
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param includeInactive query bool false "Include deactivated beneficiaries"
// @Success 200 {array} models.Beneficiary
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/beneficiaries [get]
func (h *BeneficiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), callerID(r), queryBool(r, "includeInactive"))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, list)
}

// Get returns one beneficiary
// @Summary Get beneficiary
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Beneficiary ID"
// @Success 200 {object} models.Beneficiary
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/beneficiaries/{id} [get]
func (h *BeneficiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}

	b, err := h.service.Get(r.Context(), callerID(r), id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, b)
}

// Create registers a beneficiary
// @Summary Add beneficiary
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateBeneficiaryRequest true "Beneficiary details"
// @Success 201 {object} BeneficiaryResponse
// @Failure 400 {object} services.ErrorResponse
// @Router /customer/beneficiaries [post]
func (h *BeneficiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBeneficiaryRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	b, err := h.service.Create(r.Context(), callerID(r), req)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusCreated, BeneficiaryResponse{Message: "Beneficiary added successfully.", Beneficiary: b})
}

// Update changes a beneficiary
// @Summary Update beneficiary
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Beneficiary ID"
// @Param request body services.UpdateBeneficiaryRequest true "Fields to change"
// @Success 200 {object} BeneficiaryResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/beneficiaries/{id} [put]
func (h *BeneficiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}
	var req services.UpdateBeneficiaryRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	b, err := h.service.Update(r.Context(), callerID(r), id, req)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, BeneficiaryResponse{Message: "Beneficiary updated successfully.", Beneficiary: b})
}

// Delete deactivates a beneficiary
// @Summary Delete beneficiary
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Beneficiary ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /customer/beneficiaries/{id} [delete]
func (h *BeneficiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), callerID(r), id); err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Beneficiary deleted successfully."})
}
