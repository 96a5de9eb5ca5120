// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RegistrationNonceRequest asks for a one-time nonce bound to a deck identity.
type RegistrationNonceRequest struct {
	UUID string `json:"uuid" validate:"required"`
}

// RegisterRequest creates an account protecting the deck identity UUID.
// RegistrationNonce must be the value previously issued for that UUID.
type RegisterRequest struct {
	Username          string `json:"username" validate:"required"`
	Password          string `json:"password" validate:"required"`
	UUID              string `json:"uuid" validate:"required"`
	RegistrationNonce string `json:"registrationNonce"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ShareRequest creates a share link for one deck of the given owner.
type ShareRequest struct {
	User   string `json:"user" validate:"required"`
	DeckID string `json:"deckId" validate:"required"`
}
