// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/utils"
)

// withBearerToken stores the token of an "Authorization: Bearer" header in
// the request context under [utils.BearerTokenCtxKey].
//
// It never rejects a request: whether a token is needed depends on the
// deck identity being accessed, which the access guard decides. A missing
// or malformed header leaves the context without a token.
func withBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Msg("ignoring malformed authorization header")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), utils.BearerTokenCtxKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
