package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bankofmilo/bank/internal/config"
	"github.com/bankofmilo/bank/internal/middleware"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/bankofmilo/bank/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	store repository.Store,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	accountService := service.NewAccountService(store)
	loanService := service.NewLoanService(store)
	tellerService := service.NewTellerService(store)
	adminService := service.NewAdminService(store)

	handler := NewHandler(accountService, loanService, tellerService, adminService, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("POST /api/accounts", handler.OpenAccount)
	mux.HandleFunc("POST /api/accounts/{accountNumber}/balance", handler.GetBalance)
	mux.HandleFunc("POST /api/accounts/{accountNumber}/history", handler.GetHistory)
	mux.HandleFunc("POST /api/accounts/{accountNumber}/loans", handler.GetAccountLoans)
	mux.HandleFunc("GET /api/accounts/{accountNumber}/exists", handler.CheckAccountExists)

	mux.HandleFunc("POST /api/loans", handler.ApplyLoan)

	mux.HandleFunc("POST /api/atm/auth", handler.TellerAuthenticate)
	mux.HandleFunc("POST /api/atm/deposit", handler.RequestDeposit)
	mux.HandleFunc("POST /api/atm/withdraw", handler.RequestWithdrawal)

	mux.HandleFunc("GET /api/admin/accounts", handler.AdminListAccounts)
	mux.HandleFunc("GET /api/admin/accounts/{accountNumber}/details", handler.AdminAccountDetail)
	mux.HandleFunc("POST /api/admin/accounts/{accountNumber}/close", handler.AdminCloseAccount)
	mux.HandleFunc("GET /api/admin/loans", handler.AdminListLoans)
	mux.HandleFunc("POST /api/admin/loans/{loanID}/approve", handler.AdminApproveLoan)
	mux.HandleFunc("POST /api/admin/loans/{loanID}/deny", handler.AdminDenyLoan)
	mux.HandleFunc("GET /api/admin/atm-requests", handler.AdminListTellerRequests)
	mux.HandleFunc("POST /api/admin/atm-requests/{requestID}/complete", handler.AdminCompleteTellerRequest)

	var finalHandler http.Handler = mux

	finalHandler = middleware.AdminAuth(&cfg.Bank, logger)(finalHandler)
	finalHandler = middleware.RequestLogger(logger)(finalHandler)

	return finalHandler
}
