// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
	"github.com/go-chi/chi/v5"
)

const (
	shareIDParam   = "id"
	shareBodyLimit = 4 << 10
)

// createShare handles POST /api/share.
func (h *Handler) createShare(w http.ResponseWriter, r *http.Request) {
	var req models.ShareRequest
	if err := decodeJSON(w, r, shareBodyLimit, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}

	bearer, _ := utils.GetBearerTokenFromContext(r.Context())
	shareID, err := h.services.ShareRegistry.Create(r.Context(), req, bearer)
	if err != nil {
		writeError(w, r, err, messageOverrides{
			service.ErrMissingFields: "User and deckId required",
			errInternal:              "Failed to create share",
		})
		return
	}

	logger.FromRequest(r).Info().Str("share_id", shareID).Str("user", req.User).Msg("share created")
	utils.WriteJSON(w, models.ShareResponse{UUID: shareID}, http.StatusCreated)
}

// resolveShare handles GET /api/share/{id} and returns the deck text.
func (h *Handler) resolveShare(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, shareIDParam)
	if shareID == "" {
		writeError(w, r, ErrShareIDRequired, nil)
		return
	}

	text, err := h.services.ShareRegistry.Resolve(r.Context(), shareID)
	if err != nil {
		writeError(w, r, err, messageOverrides{
			service.ErrMissingFields: "Share ID required",
			errInternal:              "Failed to resolve share",
		})
		return
	}

	utils.WriteRaw(w, []byte(text), "text/plain; charset=utf-8", http.StatusOK)
}

// shareIDRequired answers share lookups without an id.
func shareIDRequired(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrShareIDRequired, nil)
}
