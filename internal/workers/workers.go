// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers registers the jobs the configured backend needs. The expiry
// sweeper is only added for backends that implement [store.Sweeper].
func NewWorkers(storages *store.Storages, cfg config.Storage, log *logger.Logger) *Workers {
	w := &Workers{}

	if storages.Sweeper != nil && cfg.SweepInterval > 0 {
		w.workers = append(w.workers, NewExpirySweeper(storages.Sweeper, cfg.SweepInterval, log))
	}

	log.Debug().Int("workers", len(w.workers)).Msg("background workers created")
	return w
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}
