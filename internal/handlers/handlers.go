// Package handlers implements the HTTP request layer over the ledger core.
package handlers

import (
	"log/slog"

	"github.com/bankofmilo/bank/internal/service"
)

// Handler implements all endpoints over the injected services
type Handler struct {
	accountService service.Accounts
	loanService    service.Loans
	tellerService  service.Teller
	adminService   service.Admin
	logger         *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	accountService service.Accounts,
	loanService service.Loans,
	tellerService service.Teller,
	adminService service.Admin,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accountService: accountService,
		loanService:    loanService,
		tellerService:  tellerService,
		adminService:   adminService,
		logger:         logger,
	}
}
