/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the free-slot search over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/freeslots/internal/auth"
	"github.com/friendsincode/freeslots/internal/availability"
	"github.com/friendsincode/freeslots/internal/version"
)

// maxBodyBytes bounds request bodies; event limits are enforced by the service.
const maxBodyBytes = 4 << 20

// API exposes HTTP handlers.
type API struct {
	svc       *availability.Service
	jwtSecret []byte
	logger    zerolog.Logger
}

// New creates the API router wrapper. An empty jwtSecret leaves the API open.
func New(svc *availability.Service, jwtSecret []byte, logger zerolog.Logger) *API {
	return &API{
		svc:       svc,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers the API routes on r.
func (a *API) Routes(r chi.Router) {
	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(a.jwtSecret))

		r.Route("/slots", func(r chi.Router) {
			r.Use(a.requireScope(auth.ScopeFindSlots))
			r.Post("/find", a.handleFind)
			r.Post("/find/ical", a.handleFindICal)
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// requireScope rejects tokens that list scopes without the given one. Tokens
// without scopes, and requests on an open API, pass through.
func (a *API) requireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok || len(claims.Scopes) == 0 || claims.HasScope(scope) {
				next.ServeHTTP(w, r)
				return
			}
			a.logger.Warn().Str("client", claims.Client).Str("scope", scope).Msg("token lacks scope")
			writeError(w, http.StatusForbidden, "insufficient_scope")
		})
	}
}

// clientName identifies the caller for logs.
func clientName(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Client != "" {
		return claims.Client
	}
	return "anonymous"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
