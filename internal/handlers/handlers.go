package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ledgerline/backend/internal/middleware"
	"github.com/ledgerline/backend/internal/services"
)

const idempotencyHeader = "Idempotency-Key"

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message" example:"Profile updated successfully."`
}

// callerID returns the authenticated user id. Routes using it are always
// mounted behind middleware.Authenticated.
func callerID(r *http.Request) int {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return 0
	}
	return claims.UserID
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, &services.Error{Kind: services.ErrValidation, Message: "Invalid " + name + "."}
	}
	return id, nil
}

// idempotencyKey reads the optional Idempotency-Key header. Its length is
// checked by the service.
func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(idempotencyHeader))
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

var validate = services.NewValidationHelper()

// decodeAndValidate is for bodies defined in this package. Service request
// types are validated by their service.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := services.DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return validate.Validate(dst)
}
