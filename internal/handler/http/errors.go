// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Transport-level errors. They are mapped to responses together with the
// service errors in errors_mapper.go.
var (
	// ErrInvalidRequestBody is returned when a JSON request body cannot be decoded.
	ErrInvalidRequestBody = errors.New("invalid request body")

	// ErrUserParameterRequired is returned for deck requests without an identity.
	ErrUserParameterRequired = errors.New("user parameter required")

	// ErrShareIDRequired is returned for share lookups without an id.
	ErrShareIDRequired = errors.New("share id required")

	// ErrMethodNotAllowed is returned when a route exists but not for the method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrTooManyRequests is returned by the auth rate limiter.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrRouteNotFound is returned for unmatched paths when no static
	// directory is configured.
	ErrRouteNotFound = errors.New("not found")

	// ErrInvalidGzipBody is returned when a gzip encoded body cannot be read.
	ErrInvalidGzipBody = errors.New("invalid gzip data")

	errInternal = errors.New("internal server error")
)
