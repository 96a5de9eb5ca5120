// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/decklister/models"
)

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(password, salt string) string

	// Verify recomputes the hash and compares it with storedHash in
	// constant time.
	Verify(password, salt, storedHash string) bool
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(ctx context.Context, subject, username string) (models.Token, error)

	// Verify returns the claims of a valid, unexpired token. Every failure
	// is reported as ErrInvalidToken.
	Verify(ctx context.Context, token string) (models.Claims, error)
}

// NonceService issues and consumes one-time registration nonces bound to a
// deck identity.
type NonceService interface {
	Issue(ctx context.Context, uuid string) (string, error)
	Consume(ctx context.Context, uuid, nonce string) error
}

// AccountIndex answers whether a deck identity is bound to an account.
type AccountIndex interface {
	IsProtected(ctx context.Context, uuid string) (bool, error)
}

// AccountRegistry creates accounts and authenticates them.
type AccountRegistry interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.Token, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Token, error)
}

// AccountRegistryWrapper defines middleware composition for AccountRegistry.
// Implementations wrap an existing AccountRegistry to add behavior such as
// logging or validating.
type AccountRegistryWrapper interface {
	Wrap(AccountRegistry) AccountRegistry
}

// AccessGuard gates access to a deck identity.
type AccessGuard interface {
	// Authorize returns nil when uuid is not protected or bearer is a valid
	// token for uuid, and ErrAuthRequired otherwise.
	Authorize(ctx context.Context, uuid, bearer string) error
}

// DeckStore reads and writes the deck collection of a deck identity.
type DeckStore interface {
	// Read returns the collection, migrating legacy shapes or creating the
	// sample collection on first access.
	Read(ctx context.Context, uuid string) (models.DeckCollection, error)

	// Write validates body and replaces the whole collection with it.
	Write(ctx context.Context, uuid string, body []byte) (models.DeckCollection, error)

	// Find returns one deck of an existing collection without creating or
	// migrating anything.
	Find(ctx context.Context, owner, deckID string) (models.Deck, error)
}

// ShareRegistry creates share links and resolves them to live deck text.
type ShareRegistry interface {
	Create(ctx context.Context, req models.ShareRequest, bearer string) (string, error)
	Resolve(ctx context.Context, shareID string) (string, error)
}

// LoginThrottle limits failed logins per username.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) error
	Fail(ctx context.Context, username string)
	Reset(ctx context.Context, username string)
}

// Reconciler detects and repairs disagreements between account records and
// the reverse index.
type Reconciler interface {
	Reconcile(ctx context.Context, fix bool) (models.ReconcileReport, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
