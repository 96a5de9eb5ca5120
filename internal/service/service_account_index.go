// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

type accountIndex struct {
	kv store.KV
}

// NewAccountIndex returns an AccountIndex reading the reverse index in kv.
func NewAccountIndex(kv store.KV) AccountIndex {
	return &accountIndex{kv: kv}
}

// IsProtected reports whether uuid is bound to an account.
//
// A reverse-index entry only counts when the account it names exists and
// is bound to the same identity. Dangling entries left by an interrupted
// registration are treated as absent.
func (i *accountIndex) IsProtected(ctx context.Context, uuid string) (bool, error) {
	return isProtected(ctx, i.kv, uuid)
}

func isProtected(ctx context.Context, kv store.KV, uuid string) (bool, error) {
	log := logger.FromContext(ctx)

	username, err := kv.Get(ctx, store.UUIDAccountKey(uuid))
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "isProtected").Str("uuid", uuid).Msg("reverse index lookup failed")
		return false, fmt.Errorf("reverse index lookup failed: %w", err)
	}

	account, err := readAccount(ctx, kv, username)
	if errors.Is(err, store.ErrKeyNotFound) {
		log.Warn().Str("func", "isProtected").Str("uuid", uuid).Str("username", username).
			Msg("reverse index points at a missing account")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if account.UUID != uuid {
		log.Warn().Str("func", "isProtected").Str("uuid", uuid).Str("username", username).
			Msg("reverse index points at an account bound to another identity")
		return false, nil
	}
	return true, nil
}

// readAccount loads and decodes the account record of username.
// A missing record is reported as store.ErrKeyNotFound.
func readAccount(ctx context.Context, kv store.KV, username string) (models.Account, error) {
	raw, err := kv.Get(ctx, store.AccountKey(username))
	if errors.Is(err, store.ErrKeyNotFound) {
		return models.Account{}, err
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "readAccount").Msg("account lookup failed")
		return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
	}

	var account models.Account
	if err = json.Unmarshal([]byte(raw), &account); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "readAccount").Str("username", username).
			Msg("account record is corrupt")
		return models.Account{}, fmt.Errorf("account record of %q is corrupt: %w", username, err)
	}
	return account, nil
}
