package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/ledgerline/backend/internal/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1_048_576 // 1 MB

var passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{8,}$`)
var letterPattern = regexp.MustCompile(`[A-Za-z]`)
var digitPattern = regexp.MustCompile(`\d`)

// ValidPassword reports whether p has at least 8 characters, only letters and
// digits, and at least one of each.
func ValidPassword(p string) bool {
	return passwordPattern.MatchString(p) && letterPattern.MatchString(p) && digitPattern.MatchString(p)
}

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	return &ValidationHelper{validator: v}
}

// Validate runs struct validation and converts failures to ErrValidation.
func (vh *ValidationHelper) Validate(s any) error {
	err := vh.validator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationFailure{Errors: verrs}
	}
	return newError(ErrValidation, "Validation failed")
}

// ValidationFailure is an ErrValidation that carries per-field details.
type ValidationFailure struct {
	Errors validator.ValidationErrors
}

func (v *ValidationFailure) Error() string {
	return "Validation failed"
}

func (v *ValidationFailure) Is(target error) bool {
	return target == ErrValidation
}

// DecodeJSON reads exactly one JSON object from the request body.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return newError(ErrValidation, "Invalid request body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return newError(ErrValidation, "Request body must only contain a single JSON object")
	}
	return nil
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var verrs validator.ValidationErrors
	if validationErr != nil && errors.As(validationErr, &verrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range verrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendError maps a service error to its status and writes it.
func SendError(w http.ResponseWriter, err error) {
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		SendErrorResponse(w, vf.Error(), http.StatusBadRequest, vf.Errors)
		return
	}

	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.L().Error("request failed", zap.Error(err))
	}
	SendErrorResponse(w, PublicMessage(err), status, nil)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
