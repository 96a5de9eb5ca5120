// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"
)

// methodNotAllowed is registered as the router's MethodNotAllowed handler.
// It replaces chi's empty 405 with the JSON error body used everywhere else.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrMethodNotAllowed, nil)
}

// notFound is registered as the router's NotFound handler.
//
// Unmatched paths outside /api are served from the static directory when
// one is configured. Everything else gets a 404 JSON error.
func (h *Handler) notFound() http.HandlerFunc {
	var static http.Handler
	if h.cfg.StaticDir != "" {
		static = http.FileServer(http.Dir(h.cfg.StaticDir))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if static != nil && !isAPIPath(r.URL.Path) {
			static.ServeHTTP(w, r)
			return
		}
		writeError(w, r, ErrRouteNotFound, nil)
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
