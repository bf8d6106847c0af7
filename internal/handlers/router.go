package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ledgerline/backend/internal/middleware"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Auth          *AuthHandler
	Accounts      *AccountHandler
	Beneficiaries *BeneficiaryHandler
	Transactions  *TransactionHandler
	Users         *UserHandler
	Verifier      middleware.TokenVerifier
	DB            Pinger
	CORSOrigins   []string
	Log           *zap.Logger
}

func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", idempotencyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", Health(d.DB))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticated := middleware.Authenticated(d.Verifier)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", d.Auth.Signup)
			r.Post("/signin", d.Auth.Signin)
			r.Post("/refresh-token", d.Auth.RefreshToken)
			r.With(authenticated).Get("/verify-token", d.Auth.VerifyToken)
			r.With(authenticated).Post("/logout", d.Auth.Logout)
		})

		r.Get("/customer/transactions/status", d.Transactions.Status)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", d.Users.GetProfile)
				r.Put("/profile", d.Users.UpdateProfile)
			})

			r.Route("/customer", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleCustomer))

				r.Get("/account", d.Accounts.GetMyAccount)
				r.Get("/account/qr", d.Accounts.GetMyAccountQR)

				r.Get("/beneficiaries", d.Beneficiaries.List)
				r.Post("/beneficiaries", d.Beneficiaries.Create)
				r.Get("/beneficiaries/{id}", d.Beneficiaries.Get)
				r.Put("/beneficiaries/{id}", d.Beneficiaries.Update)
				r.Delete("/beneficiaries/{id}", d.Beneficiaries.Delete)

				r.Get("/transactions", d.Transactions.ListMine)
				r.Post("/transactions/transfer", d.Transactions.Transfer)
				r.Get("/transactions/{id}/pacs008", d.Transactions.ExportPacs008)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Get("/accounts", d.Accounts.ListAccounts)
				r.Post("/accounts", d.Accounts.OpenAccount)
				r.Get("/accounts/{id}", d.Accounts.GetAccount)
				r.Put("/accounts/{id}/kyc", d.Accounts.SetKYC)
				r.Put("/accounts/{id}/status", d.Accounts.SetStatus)

				r.Get("/transactions", d.Transactions.ListAll)
				r.Get("/transactions/account/{accountId}", d.Transactions.ListForAccount)
				r.Post("/transactions/deposit", d.Transactions.Deposit)
				r.Post("/transactions/withdraw", d.Transactions.Withdraw)
				r.Post("/transactions/transfer", d.Transactions.AdminTransfer)

				r.Get("/users", d.Users.ListUsers)
				r.Get("/users/{id}", d.Users.GetUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		services.SendErrorResponse(w, "Not found", http.StatusNotFound, nil)
	})
	return r
}
