// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
	"github.com/go-chi/chi/v5"
)

const userParam = "user"

// authorizeDeckOwner checks the request bearer token against the deck
// identity in the path. It writes the error response and reports false
// when access is denied.
func (h *Handler) authorizeDeckOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := chi.URLParam(r, userParam)
	if user == "" {
		writeError(w, r, ErrUserParameterRequired, nil)
		return "", false
	}

	bearer, _ := utils.GetBearerTokenFromContext(r.Context())
	if err := h.services.AccessGuard.Authorize(r.Context(), user, bearer); err != nil {
		writeError(w, r, err, nil)
		return "", false
	}
	return user, true
}

// getDecks handles GET /api/{user}.
func (h *Handler) getDecks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorizeDeckOwner(w, r)
	if !ok {
		return
	}

	decks, err := h.services.DeckStore.Read(r.Context(), user)
	if err != nil {
		writeError(w, r, err, messageOverrides{errInternal: "Failed to read decks"})
		return
	}

	writeDecks(w, r, decks)
}

// putDecks handles PUT /api/{user} and echoes the stored collection.
func (h *Handler) putDecks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorizeDeckOwner(w, r)
	if !ok {
		return
	}

	// One byte over the limit is enough for the store to reject the body.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxDeckBytes+1))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, service.ErrPayloadTooLarge, nil)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidRequestBody, err), nil)
		return
	}

	decks, err := h.services.DeckStore.Write(r.Context(), user, body)
	if err != nil {
		writeError(w, r, err, messageOverrides{errInternal: "Failed to save decks"})
		return
	}

	writeDecks(w, r, decks)
}

func writeDecks(w http.ResponseWriter, r *http.Request, decks models.DeckCollection) {
	if decks == nil {
		decks = models.DeckCollection{}
	}
	if _, err := utils.WriteJSON(w, decks, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing decks")
	}
}

// userRequired answers /api/ requests that carry no deck identity.
func userRequired(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrUserParameterRequired, nil)
}
