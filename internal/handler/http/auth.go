// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

// authBodyLimit bounds credential and nonce request bodies.
const authBodyLimit = 16 << 10

// decodeJSON reads a JSON body of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
	}
	return nil
}

// issueRegistrationNonce handles POST /api/auth/registration-nonce.
func (h *Handler) issueRegistrationNonce(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationNonceRequest
	if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}

	nonce, err := h.services.NonceService.Issue(r.Context(), req.UUID)
	if err != nil {
		writeError(w, r, err, messageOverrides{
			service.ErrMissingFields: "UUID required",
			errInternal:              "Failed to issue registration nonce",
		})
		return
	}

	utils.WriteJSON(w, models.NonceResponse{Nonce: nonce}, http.StatusOK)
}

// register handles POST /api/auth/register.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}

	token, err := h.services.AccountRegistry.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, messageOverrides{
			service.ErrMissingFields: "Username, password, and UUID required",
			errInternal:              "Registration failed",
		})
		return
	}

	logger.FromRequest(r).Info().Str("username", token.Username).Msg("account registered")
	utils.WriteJSON(w, models.RegisterResponse{Token: token.SignedString, Username: token.Username}, http.StatusCreated)
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}

	ctx := context.WithValue(r.Context(), utils.ClientIPCtxKey, clientIP(r))
	token, err := h.services.AccountRegistry.Login(ctx, req)
	if err != nil {
		writeError(w, r, err, messageOverrides{
			service.ErrMissingFields: "Username and password required",
			errInternal:              "Login failed",
		})
		return
	}

	utils.WriteJSON(w, models.LoginResponse{
		Token:    token.SignedString,
		UUID:     token.Subject,
		Username: token.Username,
	}, http.StatusOK)
}
