// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/internal/utils"
)

// nonceService keeps at most one live nonce per deck identity, stored under
// store.NonceKey with a TTL.
type nonceService struct {
	kv    store.KV
	index AccountIndex

	// ttl is how long an issued nonce stays consumable.
	ttl time.Duration

	generate func() (string, error)
}

func NewNonceService(kv store.KV, index AccountIndex, ttl time.Duration, log *logger.Logger) NonceService {
	log.Debug().Str("func", "NewNonceService").Dur("ttl", ttl).Msg("nonce service created")

	return &nonceService{
		kv:    kv,
		index: index,
		ttl:   ttl,
		generate: func() (string, error) {
			return gonanoid.New()
		},
	}
}

// Issue stores a fresh nonce for uuid, replacing any unconsumed one.
//
// Returns ErrMissingFields for an empty uuid and ErrAlreadyProtected when
// uuid is already bound to an account.
func (s *nonceService) Issue(ctx context.Context, uuid string) (string, error) {
	log := logger.FromContext(ctx)

	if uuid == "" {
		return "", ErrMissingFields
	}

	protected, err := s.index.IsProtected(ctx, uuid)
	if err != nil {
		return "", fmt.Errorf("nonce issue failed: %w", err)
	}
	if protected {
		log.Info().Str("func", "*nonceService.Issue").Str("uuid", uuid).Msg("nonce requested for a protected identity")
		return "", ErrAlreadyProtected
	}

	nonce, err := s.generate()
	if err != nil {
		log.Err(err).Str("func", "*nonceService.Issue").Msg("nonce generation failed")
		return "", fmt.Errorf("nonce generation failed: %w", err)
	}

	if err = s.kv.Put(ctx, store.NonceKey(uuid), nonce, store.WithTTL(s.ttl)); err != nil {
		log.Err(err).Str("func", "*nonceService.Issue").Str("uuid", uuid).Msg("nonce store failed")
		return "", fmt.Errorf("nonce store failed: %w", err)
	}

	return nonce, nil
}

// Consume checks nonce against the stored one for uuid and deletes it on a
// match. Absent, expired and mismatching nonces all yield ErrInvalidNonce.
func (s *nonceService) Consume(ctx context.Context, uuid, nonce string) error {
	log := logger.FromContext(ctx)

	if uuid == "" || nonce == "" {
		return ErrInvalidNonce
	}

	stored, err := s.kv.Get(ctx, store.NonceKey(uuid))
	if errors.Is(err, store.ErrKeyNotFound) {
		log.Info().Str("func", "*nonceService.Consume").Str("uuid", uuid).Msg("no live nonce")
		return ErrInvalidNonce
	}
	if err != nil {
		log.Err(err).Str("func", "*nonceService.Consume").Str("uuid", uuid).Msg("nonce lookup failed")
		return fmt.Errorf("nonce lookup failed: %w", err)
	}

	if !utils.EqualHashes(stored, nonce) {
		log.Info().Str("func", "*nonceService.Consume").Str("uuid", uuid).Msg("nonce mismatch")
		return ErrInvalidNonce
	}

	if err = s.kv.Delete(ctx, store.NonceKey(uuid)); err != nil {
		log.Err(err).Str("func", "*nonceService.Consume").Str("uuid", uuid).Msg("nonce delete failed")
		return fmt.Errorf("nonce delete failed: %w", err)
	}
	return nil
}
