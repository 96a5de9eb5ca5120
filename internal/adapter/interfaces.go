// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is a client for the decklist HTTP API.
//
// [DeckClient] is used by the admin tool to export and import collections
// through the public API, so protection rules apply exactly as they do for
// browsers. Error responses are mapped to the sentinel errors in errors.go
// and can be matched with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/decklister/models"
)

// DeckClient talks to a running decklister server.
type DeckClient interface {
	// SetToken stores the bearer token sent with every later request.
	SetToken(token string)

	// Token returns the stored bearer token, or "" when none is set.
	Token() string

	// Login authenticates and stores the issued token.
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)

	// GetDecks downloads the collection of the deck identity user.
	GetDecks(ctx context.Context, user string) (models.DeckCollection, error)

	// PutDecks replaces the collection of user and returns what the server
	// stored.
	PutDecks(ctx context.Context, user string, decks models.DeckCollection) (models.DeckCollection, error)

	// CreateShare publishes one deck and returns the share id.
	CreateShare(ctx context.Context, user, deckID string) (string, error)

	// ResolveShare returns the current text of a shared deck.
	ResolveShare(ctx context.Context, shareID string) (string, error)

	// Version returns the server version reported by /healthz.
	Version(ctx context.Context) (string, error)
}
