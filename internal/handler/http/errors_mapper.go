// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

// errorView is the external representation of an error.
type errorView struct {
	status    int
	message   string
	protected bool
}

var errorViewMap = map[error]errorView{
	service.ErrMissingFields:      {http.StatusBadRequest, "Missing required fields", false},
	service.ErrInvalidUsername:    {http.StatusBadRequest, "Username must be 3-30 alphanumeric characters or underscores", false},
	service.ErrInvalidNonce:       {http.StatusForbidden, "Invalid or expired registration nonce", false},
	service.ErrUsernameTaken:      {http.StatusConflict, "Username already taken", false},
	service.ErrAlreadyProtected:   {http.StatusConflict, "This decklist is already protected by an account", false},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, "Invalid username or password", false},
	service.ErrTooManyAttempts:    {http.StatusTooManyRequests, "Too many failed login attempts, try again later", false},
	service.ErrInvalidToken:       {http.StatusUnauthorized, "Invalid or expired token", false},
	service.ErrAuthRequired:       {http.StatusUnauthorized, "Authentication required", true},
	service.ErrPayloadTooLarge:    {http.StatusRequestEntityTooLarge, "Payload too large", false},
	service.ErrInvalidJSON:        {http.StatusBadRequest, "Invalid JSON", false},
	service.ErrInvalidShape:       {http.StatusBadRequest, "Deck collection must be an array of {id, text} objects", false},
	service.ErrShareNotFound:      {http.StatusNotFound, "Share not found", false},
	service.ErrStaleReference:     {http.StatusNotFound, "Shared deck no longer exists", false},

	ErrInvalidRequestBody:    {http.StatusBadRequest, "Invalid request body", false},
	ErrUserParameterRequired: {http.StatusBadRequest, "User parameter required", false},
	ErrShareIDRequired:       {http.StatusBadRequest, "Share ID required", false},
	ErrMethodNotAllowed:      {http.StatusMethodNotAllowed, "Method not allowed", false},
	ErrTooManyRequests:       {http.StatusTooManyRequests, "Too many requests", false},
	ErrRouteNotFound:         {http.StatusNotFound, "Not found", false},
	ErrInvalidGzipBody:       {http.StatusBadRequest, "Invalid gzip data", false},
}

var internalErrorView = errorView{http.StatusInternalServerError, "Internal server error", false}

// viewFromError returns the mapped view of err together with the sentinel
// it matched. Unknown errors map to errInternal.
func viewFromError(err error) (error, errorView) {
	for target, view := range errorViewMap {
		if errors.Is(err, target) {
			return target, view
		}
	}
	return errInternal, internalErrorView
}

func statusFromError(err error) int {
	_, view := viewFromError(err)
	return view.status
}

// messageOverrides replaces the default message of a matched sentinel.
// errInternal overrides the message of unmapped errors.
type messageOverrides map[error]string

// writeError logs err and writes its mapped response. Internal details of
// unmapped errors never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, overrides messageOverrides) {
	target, view := viewFromError(err)
	if message, ok := overrides[target]; ok {
		view.message = message
	}

	log := logger.FromRequest(r)
	if view.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", view.status).Msg("request rejected")
	}

	if _, werr := utils.WriteJSON(w, models.ErrorResponse{Error: view.message, Protected: view.protected}, view.status); werr != nil {
		log.Err(werr).Msg("error writing error response")
	}
}
