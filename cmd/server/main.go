package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerline/backend/docs"
	"github.com/ledgerline/backend/internal/audit"
	"github.com/ledgerline/backend/internal/config"
	"github.com/ledgerline/backend/internal/database"
	"github.com/ledgerline/backend/internal/handlers"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/ledgerline/backend/internal/seed"
	"github.com/ledgerline/backend/internal/services"
	"go.uber.org/zap"
)

// @title Ledgerline Banking API
// @version 1.0
// @description Customer and admin banking API: accounts, beneficiaries, transfers and a transactional ledger.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L()

	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db := database.InitDatabase(ctx)
	defer db.Close()

	redisClient := database.InitRedis(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	hasher := services.NewPasswordHasher(cfg.Argon2)
	if cfg.SeedEnabled {
		if err := seed.Run(ctx, db, hasher, seed.DefaultFixtures()); err != nil {
			lg.Fatal("failed to seed database", zap.Error(err))
		}
	}
	cancel()

	auditLog := audit.NewLogger(lg)
	ledger := services.NewLedgerService(db, cfg.Ledger.TxTimeout)

	authService := services.NewAuthService(db, redisClient, hasher, cfg.JWT, cfg.AllowAdminSignup)
	accountService := services.NewAccountService(db, ledger, auditLog)
	qrService := services.NewQRService(accountService, cfg.Ledger.BankName)
	beneficiaryService := services.NewBeneficiaryService(db)
	transactionService := services.NewTransactionService(db, redisClient, ledger, auditLog, cfg.Ledger.IdempotencyTTL)
	iso20022Service := services.NewISO20022Service(db, cfg.Ledger.Currency, cfg.Ledger.BankBIC)
	userService := services.NewUserService(db, hasher)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:          handlers.NewAuthHandler(authService),
		Accounts:      handlers.NewAccountHandler(accountService, qrService),
		Beneficiaries: handlers.NewBeneficiaryHandler(beneficiaryService),
		Transactions:  handlers.NewTransactionHandler(transactionService, iso20022Service),
		Users:         handlers.NewUserHandler(userService),
		Verifier:      authService,
		DB:            db,
		CORSOrigins:   cfg.CORSOrigins,
		Log:           lg.Named("http"),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		lg.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	lg.Info("server stopped")
}
