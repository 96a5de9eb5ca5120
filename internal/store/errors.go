// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by every [KV] backend. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by Get when the key is absent or its
	// value has expired.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned by Create when a live value is already
	// stored under the key.
	ErrKeyExists = errors.New("key already exists")

	// ErrUnknownDriver is returned by NewStorages for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors wrapped by the SQL backend.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a statement fails in the driver.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
