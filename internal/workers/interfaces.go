// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background jobs of the server next to the HTTP
// transport.
//
// A [Worker] blocks until its context is cancelled. [Workers] starts every
// registered worker in its own goroutine and waits for all of them to
// return.
package workers

import "context"

// Worker is a background job bound to the lifetime of ctx.
//
// Example implementation:
//
//	type pinger struct{}
//
//	func (p *pinger) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}
