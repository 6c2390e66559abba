// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/session"
)

// RequireAuth rejects requests without a valid, unrevoked bearer token.
// Accepted requests carry the token claims in their context.
func RequireAuth(tokens *auth.Tokens, revoker session.Revoker) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if revoked {
				ErrorResponse(w, http.StatusUnauthorized, "Token has been revoked")
				return
			}

			next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		}
	}
}
