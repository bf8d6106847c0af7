package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
)

type contextKey int

const claimsKey contextKey = iota

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*services.Claims, error)
}

// Authenticated rejects requests without a valid access token and stores the
// token claims on the request context. The "Bearer " prefix is optional.
func Authenticated(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				services.SendErrorResponse(w, "No token provided!", http.StatusUnauthorized, nil)
				return
			}
			if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
				token = token[7:]
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrInternal) {
					services.SendError(w, err)
					return
				}
				services.SendErrorResponse(w, "Unauthorized!", http.StatusUnauthorized, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets through only tokens carrying role. It must run after
// Authenticated.
func RequireRole(role string) func(http.Handler) http.Handler {
	message := "Require Customer Role!"
	if role == models.RoleAdmin {
		message = "Require Admin Role!"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				services.SendErrorResponse(w, "No token provided!", http.StatusUnauthorized, nil)
				return
			}
			if claims.Role != role {
				services.SendErrorResponse(w, message, http.StatusForbidden, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}
