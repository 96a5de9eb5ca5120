// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 86400

// Init builds the router.
//
// Middleware order: recovery, trace id and access log first so every
// response is logged, then hardening headers and CORS, then compression and
// bearer token extraction.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(
		middleware.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.SetHeader("X-Frame-Options", "DENY"),
		middleware.SetHeader("Referrer-Policy", "strict-origin-when-cross-origin"),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{traceIDHeader},
		MaxAge:         corsMaxAge,
	}))
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}
	router.Use(withGZip)
	router.Use(withBearerToken)

	router.Get("/healthz", h.getServerVersion)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if h.cfg.AuthRateLimit > 0 {
				r.Use(withRateLimit(newIPRateLimiter(h.cfg.AuthRateLimit, h.cfg.AuthRateBurst)))
			}
			r.Post("/registration-nonce", h.issueRegistrationNonce)
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Post("/share", h.createShare)
		// Without this chi falls back to the user route and stores decks for "share".
		r.Put("/share", methodNotAllowed)
		r.Get("/share", shareIDRequired)
		r.Get("/share/", shareIDRequired)
		r.Get("/share/{"+shareIDParam+"}", h.resolveShare)

		r.Get("/", userRequired)
		r.Put("/", userRequired)
		r.Get("/{"+userParam+"}", h.getDecks)
		r.Put("/{"+userParam+"}", h.putDecks)
	})

	router.MethodNotAllowed(methodNotAllowed)
	router.NotFound(h.notFound())

	return router
}
