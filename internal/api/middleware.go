package api

// This file contains the middleware for the shared-secret admin check.

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/auth"
)

// adminHeader carries the admin secret on every admin request.
const adminHeader = "x-admin-password"

// isAdmin reports whether the request carries the admin secret in its header.
func (s *Server) isAdmin(r *http.Request) bool {
	return auth.CheckSecret(r.Header.Get(adminHeader), s.app.AdminSecret())
}

// AdminOnlyMiddleware rejects requests without a valid admin secret.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r) {
			hlog.FromRequest(r).Warn().Str("path", r.URL.Path).Msg("Rejected admin request")
			RespondWithMessage(w, http.StatusForbidden, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminSocketMiddleware is AdminOnlyMiddleware for websocket upgrades.
// Browsers cannot set headers on a websocket handshake, so the secret may
// also arrive in the password query parameter.
func (s *Server) AdminSocketMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get(adminHeader)
		if secret == "" {
			secret = r.URL.Query().Get("password")
		}
		if !auth.CheckSecret(secret, s.app.AdminSecret()) {
			RespondWithMessage(w, http.StatusForbidden, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
