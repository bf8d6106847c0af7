package handlers

import (
	"context"
	"net/http"

	"github.com/ledgerline/backend/internal/middleware"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
)

type AuthAPI interface {
	Signup(ctx context.Context, req services.SignupRequest) (*models.User, error)
	Signin(ctx context.Context, req services.SigninRequest) (*services.SigninResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.RefreshResponse, error)
	Logout(ctx context.Context, claims *services.Claims)
}

type AuthHandler struct {
	service AuthAPI
}

// RefreshTokenRequest carries the refresh token issued at signin.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyTokenResponse answers the token check.
type VerifyTokenResponse struct {
	Message string `json:"message" example:"Token is valid"`
	Valid   bool   `json:"valid" example:"true"`
}

func NewAuthHandler(service AuthAPI) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup registers a user
// @Summary Register user
// @Description Create a user. Customers also get a savings account with a zero balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SignupRequest true "Registration details"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	if _, err := h.service.Signup(r.Context(), req); err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully!"})
}

// Signin authenticates a user
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SigninRequest true "Credentials"
// @Success 200 {object} services.SigninResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req services.SigninRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	resp, err := h.service.Signin(r.Context(), req)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, resp)
}

// RefreshToken rotates the token pair
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} services.RefreshResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendError(w, err)
		return
	}

	resp, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, resp)
}

// VerifyToken reports that the bearer token passed authentication
// @Summary Verify token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} VerifyTokenResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/verify-token [get]
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, VerifyTokenResponse{Message: "Token is valid", Valid: true})
}

// Logout revokes the bearer token
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	h.service.Logout(r.Context(), claims)
	services.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully."})
}
