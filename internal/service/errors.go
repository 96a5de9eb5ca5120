// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrMissingFields is returned when a required request field is empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidUsername is returned when a username breaks the 3-30
	// characters of letters, digits and underscore rule.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidNonce is returned for every failed nonce consumption: absent,
	// expired or mismatching nonces are indistinguishable.
	ErrInvalidNonce = errors.New("invalid or expired registration nonce")

	// ErrUsernameTaken is returned when an account with the username exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrAlreadyProtected is returned when the deck identity is already bound
	// to an account.
	ErrAlreadyProtected = errors.New("deck identity is already protected by an account")

	// ErrInvalidCredentials is returned for every failed login: unknown user
	// and wrong password are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTooManyAttempts is returned while a username is locked out after
	// repeated failed logins.
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	// ErrInvalidToken is returned by the token codec for any malformed,
	// tampered or expired token.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrAuthRequired is returned when a protected deck identity is accessed
	// without a valid token for that identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrPayloadTooLarge is returned when a deck collection body exceeds the
	// configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidJSON is returned when a deck collection body is not JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidShape is returned when a deck collection body is JSON but not
	// an array of {id, text} objects.
	ErrInvalidShape = errors.New("deck collection must be an array of {id, text} objects")

	// ErrShareNotFound is returned when no share record exists for an id.
	ErrShareNotFound = errors.New("share not found")

	// ErrStaleReference is returned when a share points at a deck or
	// collection that no longer exists.
	ErrStaleReference = errors.New("shared deck no longer exists")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
