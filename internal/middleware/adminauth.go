// Package middleware provides HTTP middleware components for the bank API.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bankofmilo/bank/internal/config"
)

const adminPathPrefix = "/api/admin/"

type authErrorResponse struct {
	Error string `json:"error"`
}

// AdminAuth creates middleware that guards administrative routes with the
// configured credentials, supplied as an "Authorization: user:pass" header.
func AdminAuth(cfg *config.BankConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, adminPathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			if !credentialsValid(r.Header.Get("Authorization"), cfg) {
				logger.Warn("rejected admin request",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(authErrorResponse{ //nolint:errcheck // nothing useful to do if write fails
					Error: "Admin authentication required",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func credentialsValid(header string, cfg *config.BankConfig) bool {
	username, password, ok := strings.Cut(header, ":")
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	return userOK && passOK
}
