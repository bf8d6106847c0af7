package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/config"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/models"
	"go.uber.org/zap"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AuthService struct {
	db               *sql.DB
	redis            *redis.Client
	validator        *ValidationHelper
	hasher           *PasswordHasher
	numbers          *AccountNumberGenerator
	jwt              config.JWTConfig
	allowAdminSignup bool
	now              func() time.Time
	log              *zap.Logger
}

// Claims carried by every token this service signs.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// SignupRequest represents the registration request payload
// @Description Registration request structure
type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100" example:"John"`
	LastName    string `json:"lastName" validate:"required,max=100" example:"Doe"`
	Email       string `json:"email" validate:"required,email,max=255" example:"john@example.com"`
	Password    string `json:"password" validate:"required,password" example:"password123"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=32" example:"+15555550100"`
	Address     string `json:"address" validate:"required,max=255" example:"1 Main St"`
	City        string `json:"city" validate:"required,max=100" example:"Springfield"`
	State       string `json:"state" validate:"required,max=100" example:"IL"`
	ZipCode     string `json:"zipCode" validate:"required,max=20" example:"62701"`
	Role        string `json:"role" validate:"omitempty,oneof=admin customer" example:"customer"`
}

// SigninRequest represents the login request payload
// @Description Login request structure
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

// SigninResponse represents the authentication response
// @Description Authentication response structure
type SigninResponse struct {
	ID           int    `json:"id" example:"1"`
	FirstName    string `json:"firstName" example:"John"`
	LastName     string `json:"lastName" example:"Doe"`
	Email        string `json:"email" example:"john@example.com"`
	Role         string `json:"role" example:"customer"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries a rotated token pair.
type RefreshResponse struct {
	Token           string `json:"token"`
	NewRefreshToken string `json:"newRefreshToken"`
}

func NewAuthService(db *sql.DB, redisClient *redis.Client, hasher *PasswordHasher, jwtCfg config.JWTConfig, allowAdminSignup bool) *AuthService {
	return &AuthService{
		db:               db,
		redis:            redisClient,
		validator:        NewValidationHelper(),
		hasher:           hasher,
		numbers:          NewAccountNumberGenerator(),
		jwt:              jwtCfg,
		allowAdminSignup: allowAdminSignup,
		now:              time.Now,
		log:              logger.L().Named("auth"),
	}
}

// Signup creates a user. Customers get a savings account with a zero balance
// in the same transaction.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Validate(&req); err != nil {
		s.log.Info("[AUTH] registration validation failed", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, newError(ErrForbidden, "Admin registration is disabled.")
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internalError("begin signup", err)
	}
	defer tx.Rollback()

	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Role:        role,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password, phone_number, address, city, state, zip_code, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, is_active, created_at, updated_at`,
		user.FirstName, user.LastName, user.Email, hashedPassword, user.PhoneNumber,
		user.Address, user.City, user.State, user.ZipCode, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			s.log.Info("[AUTH] registration rejected, email in use", zap.String("email", req.Email))
			return nil, newError(ErrDuplicateEmail, "Failed! Email is already in use!")
		}
		return nil, internalError("insert user", err)
	}

	if role == models.RoleCustomer {
		number, err := s.numbers.Next(ctx, tx)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (user_id, account_number, account_type, balance) VALUES ($1, $2, $3, 0.00)`,
			user.ID, number, models.AccountTypeSavings); err != nil {
			return nil, internalError("insert account", err)
		}
		user.Account = &models.AccountSummary{
			AccountNumber: number,
			AccountType:   models.AccountTypeSavings,
			IsActive:      true,
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, internalError("commit signup", err)
	}

	s.log.Info("[AUTH] user registered", zap.Int("user_id", user.ID), zap.String("role", role))
	return user, nil
}

// Signin checks credentials, stamps last_login and issues a token pair.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password, role FROM users WHERE email = $1`, req.Email,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		return nil, notFoundOr(err, "load user", "User Not found.")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.log.Info("[AUTH] invalid password", zap.Int("user_id", user.ID))
		return nil, newError(ErrInvalidCredentials, "Invalid password!")
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, s.now().UTC(), user.ID); err != nil {
		return nil, internalError("update last login", err)
	}

	access, refresh, err := s.issuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("[AUTH] login successful", zap.Int("user_id", user.ID))
	return &SigninResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// RefreshToken exchanges a refresh token for a new pair. Access tokens are not
// accepted here.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	if refreshToken == "" {
		return nil, newError(ErrValidation, "Refresh token is required!")
	}

	claims, err := s.ParseToken(refreshToken)
	if err != nil || claims.Type != TokenTypeRefresh {
		return nil, newError(ErrInvalidCredentials, "Invalid refresh token!")
	}
	if revoked, err := s.isRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, newError(ErrInvalidCredentials, "Invalid refresh token!")
	}

	var role string
	err = s.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, claims.UserID).Scan(&role)
	if err != nil {
		return nil, notFoundOr(err, "load user", "User not found!")
	}

	access, refresh, err := s.issuePair(claims.UserID, role)
	if err != nil {
		return nil, err
	}

	// The presented refresh token is single use.
	s.revoke(ctx, claims)
	return &RefreshResponse{Token: access, NewRefreshToken: refresh}, nil
}

// VerifyAccessToken validates signature, expiry and type, and rejects tokens
// revoked by Logout.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, newError(ErrInvalidCredentials, "Unauthorized!")
	}
	if claims.Type != TokenTypeAccess {
		return nil, newError(ErrInvalidCredentials, "Unauthorized!")
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, newError(ErrInvalidCredentials, "Unauthorized!")
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway. Without Redis
// it is a no-op and the token stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) {
	s.revoke(ctx, claims)
}

// ParseToken is the stateless check: HMAC signature and expiry only.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.jwt.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) issuePair(userID int, role string) (string, string, error) {
	access, err := s.generateJWT(userID, role, TokenTypeAccess, s.jwt.AccessTTL)
	if err != nil {
		return "", "", internalError("sign access token", err)
	}
	refresh, err := s.generateJWT(userID, role, TokenTypeRefresh, s.jwt.RefreshTTL)
	if err != nil {
		return "", "", internalError("sign refresh token", err)
	}
	return access, refresh, nil
}

func (s *AuthService) generateJWT(userID int, role, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(s.jwt.SecretKey))
}

func (s *AuthService) revoke(ctx context.Context, claims *Claims) {
	if s.redis == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, blacklistKey(claims.ID), "1", ttl).Err(); err != nil {
		s.log.Warn("[AUTH] failed to blacklist token", zap.Error(err))
	}
}

func (s *AuthService) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.redis == nil || jti == "" {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, internalError("check token blacklist", err)
	}
	return n > 0, nil
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}
