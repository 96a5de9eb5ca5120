// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
)

type expirySweeper struct {
	sweeper  store.Sweeper
	interval time.Duration
	logger   *logger.Logger

	// tick is replaced in tests.
	tick func(d time.Duration) (<-chan time.Time, func())
}

// NewExpirySweeper returns a Worker that calls s.Sweep every interval.
// Non-positive intervals default to five minutes.
func NewExpirySweeper(s store.Sweeper, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &expirySweeper{
		sweeper:  s,
		interval: interval,
		logger:   log,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Run implements Worker.
func (e *expirySweeper) Run(ctx context.Context) {
	ticks, stop := e.tick(e.interval)
	defer stop()

	e.logger.Info().Dur("interval", e.interval).Msg("expiry sweeper started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("expiry sweeper stopped")
			return
		case <-ticks:
			e.sweep(ctx)
		}
	}
}

func (e *expirySweeper) sweep(ctx context.Context) {
	removed, err := e.sweeper.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.Err(err).Str("func", "*expirySweeper.sweep").Msg("error sweeping expired keys")
		}
		return
	}
	if removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("expired keys swept")
	}
}
