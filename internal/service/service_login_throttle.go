// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
)

// failureRecordSize is the encoded size of a failure record: the failure
// count followed by the window start in Unix milliseconds.
const failureRecordSize = 16

// Cache sizing: one small record per key that failed recently.
const (
	throttleShards          = 64
	throttleEntriesInWindow = 10_000
	throttleMaxEntrySize    = 64
	throttleHardMaxCacheMB  = 32
)

// loginThrottle counts failed logins per key in fixed windows. The account
// registry keys it by username and client address.
// Counters live in process memory and are lost on restart.
type loginThrottle struct {
	mu    sync.Mutex
	cache *bigcache.BigCache

	maxFailures uint64
	window      time.Duration

	now func() time.Time
}

// NewLoginThrottle returns a LoginThrottle allowing cfg.LoginMaxFailures
// failed logins per username within cfg.LoginFailureWindow. A non-positive
// limit disables throttling. The cache cleanup goroutine stops when ctx is done.
func NewLoginThrottle(ctx context.Context, cfg config.App, log *logger.Logger) (LoginThrottle, error) {
	if cfg.LoginMaxFailures <= 0 {
		log.Debug().Str("func", "NewLoginThrottle").Msg("login throttling disabled")
		return noopThrottle{}, nil
	}

	cacheConfig := bigcache.DefaultConfig(cfg.LoginFailureWindow)
	cacheConfig.CleanWindow = cfg.LoginFailureWindow
	cacheConfig.Shards = throttleShards
	cacheConfig.MaxEntriesInWindow = throttleEntriesInWindow
	cacheConfig.MaxEntrySize = throttleMaxEntrySize
	cacheConfig.HardMaxCacheSize = throttleHardMaxCacheMB
	cacheConfig.Verbose = false

	cache, err := bigcache.NewBigCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating login throttle cache: %w", err)
	}
	go func() {
		<-ctx.Done()
		if err := cache.Close(); err != nil {
			log.Err(err).Str("func", "NewLoginThrottle").Msg("error closing login throttle cache")
		}
	}()

	log.Debug().Str("func", "NewLoginThrottle").
		Int("max_failures", cfg.LoginMaxFailures).
		Dur("window", cfg.LoginFailureWindow).
		Msg("login throttle created")

	return &loginThrottle{
		cache:       cache,
		maxFailures: uint64(cfg.LoginMaxFailures),
		window:      cfg.LoginFailureWindow,
		now:         time.Now,
	}, nil
}

// Allow returns ErrTooManyAttempts while username has used up its failures
// in the current window.
func (t *loginThrottle) Allow(ctx context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	count, ok := t.current(username)
	if ok && count >= t.maxFailures {
		logger.FromContext(ctx).Warn().Str("func", "*loginThrottle.Allow").Str("username", username).
			Msg("login locked out")
		return ErrTooManyAttempts
	}
	return nil
}

// Fail records one failed login for username.
func (t *loginThrottle) Fail(ctx context.Context, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	record := make([]byte, failureRecordSize)

	count, ok := t.current(username)
	if ok {
		raw, _ := t.cache.Get(username)
		copy(record, raw)
		binary.BigEndian.PutUint64(record[:8], count+1)
	} else {
		binary.BigEndian.PutUint64(record[:8], 1)
		binary.BigEndian.PutUint64(record[8:], uint64(now.UnixMilli()))
	}

	if err := t.cache.Set(username, record); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*loginThrottle.Fail").Msg("failed to record login failure")
	}
}

// Reset forgets the failures of username.
func (t *loginThrottle) Reset(ctx context.Context, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.cache.Delete(username); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		logger.FromContext(ctx).Err(err).Str("func", "*loginThrottle.Reset").Msg("failed to reset login failures")
	}
}

// current returns the failure count of the live window of username.
// The caller must hold t.mu.
func (t *loginThrottle) current(username string) (uint64, bool) {
	raw, err := t.cache.Get(username)
	if err != nil || len(raw) != failureRecordSize {
		return 0, false
	}

	start := time.UnixMilli(int64(binary.BigEndian.Uint64(raw[8:])))
	if t.now().Sub(start) >= t.window {
		return 0, false
	}
	return binary.BigEndian.Uint64(raw[:8]), true
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string) error { return nil }
func (noopThrottle) Fail(context.Context, string)        {}
func (noopThrottle) Reset(context.Context, string)       {}
