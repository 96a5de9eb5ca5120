// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/decklister/internal/logger"
)

type accessGuard struct {
	index  AccountIndex
	tokens TokenCodec
}

func NewAccessGuard(index AccountIndex, tokens TokenCodec) AccessGuard {
	return &accessGuard{index: index, tokens: tokens}
}

// Authorize lets every request through for unprotected identities. For a
// protected identity bearer must verify and carry uuid as its subject.
// Missing, invalid and foreign tokens all yield ErrAuthRequired.
func (g *accessGuard) Authorize(ctx context.Context, uuid, bearer string) error {
	log := logger.FromContext(ctx)

	protected, err := g.index.IsProtected(ctx, uuid)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if !protected {
		return nil
	}

	if bearer == "" {
		log.Info().Str("func", "*accessGuard.Authorize").Str("uuid", uuid).Msg("no token for protected identity")
		return ErrAuthRequired
	}

	claims, err := g.tokens.Verify(ctx, bearer)
	if err != nil {
		log.Info().Str("func", "*accessGuard.Authorize").Str("uuid", uuid).Msg("invalid token for protected identity")
		return ErrAuthRequired
	}

	if claims.Subject != uuid {
		log.Warn().Str("func", "*accessGuard.Authorize").Str("uuid", uuid).Str("subject", claims.Subject).
			Msg("token subject does not match identity")
		return ErrAuthRequired
	}
	return nil
}
