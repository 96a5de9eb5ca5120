// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
)

func newTestTokenCodec(t *testing.T, key string) *tokenCodec {
	t.Helper()

	cfg := testAppConfig()
	cfg.TokenSignKey = key
	codec, err := NewTokenCodec(cfg, logger.Nop())
	require.NoError(t, err)
	return codec.(*tokenCodec)
}

func TestTokenCodec_IssueVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := newTestTokenCodec(t, "key-one")

	token, err := codec.Issue(ctx, "uuid-1", "alice")
	require.NoError(t, err)

	claims, err := codec.Verify(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, token.Claims, claims)
	assert.Equal(t, "uuid-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenCodec_ExpiresAfterDuration(t *testing.T) {
	ctx := context.Background()
	codec := newTestTokenCodec(t, "key-one")

	issuedAt := time.Now()
	codec.now = func() time.Time { return issuedAt }
	token, err := codec.Issue(ctx, "uuid-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour).UnixMilli(), token.ExpiresAt)

	codec.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = codec.Verify(ctx, token.SignedString)
	assert.NoError(t, err)

	codec.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = codec.Verify(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_AnyAlteredCharacterIsRejected(t *testing.T) {
	ctx := context.Background()
	codec := newTestTokenCodec(t, "key-one")

	token, err := codec.Issue(ctx, "uuid-1", "alice")
	require.NoError(t, err)

	raw := []byte(token.SignedString)
	for i := range raw {
		altered := bytes.Clone(raw)
		if altered[i] == 'A' {
			altered[i] = 'B'
		} else {
			altered[i] = 'A'
		}

		_, err := codec.Verify(ctx, string(altered))
		assert.ErrorIs(t, err, ErrInvalidToken, "position %d", i)
	}
}

func TestTokenCodec_DifferentSecretIsRejected(t *testing.T) {
	ctx := context.Background()

	token, err := newTestTokenCodec(t, "key-one").Issue(ctx, "uuid-1", "alice")
	require.NoError(t, err)

	_, err = newTestTokenCodec(t, "key-two").Verify(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_MalformedTokens(t *testing.T) {
	codec := newTestTokenCodec(t, "key-one")

	for _, raw := range []string{"", "a.b", "a.b.c.d", "not a token", "...."} {
		_, err := codec.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestNewTokenCodec_EphemeralKeyInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger("test", logger.WithOutput(&buf))

	cfg := testAppConfig()
	cfg.TokenSignKey = ""

	first, err := NewTokenCodec(cfg, log)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "ephemeral key")

	second, err := NewTokenCodec(cfg, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	token, err := first.Issue(ctx, "uuid-1", "alice")
	require.NoError(t, err)

	_, err = first.Verify(ctx, token.SignedString)
	assert.NoError(t, err, "same process key verifies")

	_, err = second.Verify(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrInvalidToken, "a new key does not verify old tokens")
}

func TestNewTokenCodec_MissingKeyInProduction(t *testing.T) {
	cfg := testAppConfig()
	cfg.Profile = config.ProfileProduction
	cfg.TokenSignKey = ""

	codec, err := NewTokenCodec(cfg, logger.Nop())

	assert.Nil(t, codec)
	assert.ErrorIs(t, err, config.ErrMissingTokenSignKey)
}
