// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server defines the lifecycle of the transport servers managed by this
// package.
type Server interface {
	// RunServer serves requests and blocks until a stop signal arrives and
	// shutdown has finished.
	RunServer()

	// Shutdown gracefully stops the server.
	Shutdown()
}
