// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

const ephemeralSignKeyLength = 32

// tokenCodec is the HS256 implementation of TokenCodec.
type tokenCodec struct {
	// signKey is the HMAC secret used to sign and verify tokens.
	signKey []byte

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	now func() time.Time
}

// NewTokenCodec constructs a TokenCodec from cfg.
//
// An empty TokenSignKey is fatal in the production profile. Otherwise a
// random per-process key is generated and a warning is logged: tokens
// issued with it stop verifying once the process exits.
func NewTokenCodec(cfg config.App, log *logger.Logger) (TokenCodec, error) {
	signKey := []byte(cfg.TokenSignKey)
	if len(signKey) == 0 {
		if cfg.IsProduction() {
			return nil, config.ErrMissingTokenSignKey
		}

		signKey = make([]byte, ephemeralSignKeyLength)
		if _, err := rand.Read(signKey); err != nil {
			return nil, fmt.Errorf("error generating ephemeral token sign key: %w", err)
		}
		log.Warn().Str("func", "NewTokenCodec").
			Msg("no token sign key configured: using an ephemeral key, issued tokens will be invalid after restart")
	}

	return &tokenCodec{
		signKey:       signKey,
		tokenDuration: cfg.TokenDuration,
		now:           time.Now,
	}, nil
}

// Issue signs a token for subject and username expiring tokenDuration from now.
func (c *tokenCodec) Issue(ctx context.Context, subject, username string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(subject, username, c.now(), c.tokenDuration, c.signKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tokenCodec.Issue").Msg("token creation failed")
		return models.Token{}, fmt.Errorf("token creation failed: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token. The underlying reason of
// a failure is logged but never returned.
func (c *tokenCodec) Verify(ctx context.Context, token string) (models.Claims, error) {
	claims, err := utils.ValidateAndParseJWTToken(token, c.signKey, c.now)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*tokenCodec.Verify").Msg("token rejected")
		return models.Claims{}, ErrInvalidToken
	}
	return claims, nil
}
