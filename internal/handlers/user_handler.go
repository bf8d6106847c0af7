package handlers

import (
	"context"
	"net/http"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
)

type UserAPI interface {
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	ListCustomers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int, req services.UpdateProfileRequest) error
}

type UserHandler struct {
	service UserAPI
}

func NewUserHandler(service UserAPI) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 404 {object} services.ErrorResponse
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), callerID(r))
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's profile
// @Summary Update profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	if err := h.service.UpdateProfile(r.Context(), callerID(r), req); err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Profile updated successfully."})
}

// ListUsers returns every customer
// @Summary List customers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListCustomers(r.Context())
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, users)
}

// GetUser returns one user
// @Summary Get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		services.SendError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, user)
}
