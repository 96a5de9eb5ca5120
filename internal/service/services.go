// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
)

type Services struct {
	AccountIndex    AccountIndex
	NonceService    NonceService
	AccountRegistry AccountRegistry
	AccessGuard     AccessGuard
	DeckStore       DeckStore
	ShareRegistry   ShareRegistry
	Reconciler      Reconciler
	AppInfoService  AppInfoService
}

// NewServices wires every service on top of storages. ctx bounds the
// lifetime of background work such as the login throttle cache cleanup.
func NewServices(ctx context.Context, storages *store.Storages, cfg config.App, log *logger.Logger) (*Services, error) {
	tokens, err := NewTokenCodec(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error creating token codec: %w", err)
	}

	throttle, err := NewLoginThrottle(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error creating login throttle: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	kv := storages.KV
	index := NewAccountIndex(kv)
	nonces := NewNonceService(kv, index, cfg.NonceTTL, log)
	guard := NewAccessGuard(index, tokens)
	decks := NewDeckStore(kv, cfg.MaxDeckBytes, log)

	accounts := NewAccountValidationService().Wrap(
		NewAccountRegistry(kv, nonces, NewPasswordHasher(cfg.PasswordIterations), tokens, throttle, log),
	)

	return &Services{
		AccountIndex:    index,
		NonceService:    nonces,
		AccountRegistry: accounts,
		AccessGuard:     guard,
		DeckStore:       decks,
		ShareRegistry:   NewShareRegistry(kv, guard, decks, log),
		Reconciler:      NewReconciler(kv),
		AppInfoService:  appInfo,
	}, nil
}
