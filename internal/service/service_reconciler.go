// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

type reconciler struct {
	kv store.KV
}

func NewReconciler(kv store.KV) Reconciler {
	return &reconciler{kv: kv}
}

// Reconcile compares every reverse-index entry with every account record.
//
// A reverse-index entry is dangling when the account it names is missing or
// bound to another identity. An account misses its pointer when no entry
// exists for its identity or the entry is dangling. With fix set, dangling
// entries are deleted before missing ones are created.
func (r *reconciler) Reconcile(ctx context.Context, fix bool) (models.ReconcileReport, error) {
	log := logger.FromContext(ctx)
	report := models.ReconcileReport{
		DanglingPointers: []string{},
		MissingPointers:  []string{},
	}

	pointerKeys, err := r.kv.List(ctx, store.UUIDAccountPrefix)
	if err != nil {
		return report, fmt.Errorf("error listing reverse index: %w", err)
	}

	dangling := make(map[string]struct{})
	for _, key := range pointerKeys {
		uuid := strings.TrimPrefix(key, store.UUIDAccountPrefix)
		protected, err := isProtected(ctx, r.kv, uuid)
		if err != nil {
			return report, err
		}
		if !protected {
			dangling[uuid] = struct{}{}
			report.DanglingPointers = append(report.DanglingPointers, uuid)
		}
	}

	accountKeys, err := r.kv.List(ctx, store.AccountPrefix)
	if err != nil {
		return report, fmt.Errorf("error listing accounts: %w", err)
	}

	missing := make(map[string]string)
	for _, key := range accountKeys {
		username := strings.TrimPrefix(key, store.AccountPrefix)
		account, err := readAccount(ctx, r.kv, username)
		if errors.Is(err, store.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("func", "*reconciler.Reconcile").Str("username", username).Msg("skipping account")
			continue
		}

		_, err = r.kv.Get(ctx, store.UUIDAccountKey(account.UUID))
		_, isDangling := dangling[account.UUID]
		switch {
		case errors.Is(err, store.ErrKeyNotFound) || (err == nil && isDangling):
			missing[username] = account.UUID
			report.MissingPointers = append(report.MissingPointers, username)
		case err != nil:
			return report, fmt.Errorf("reverse index lookup failed: %w", err)
		}
	}

	if !fix || report.Consistent() {
		return report, nil
	}

	for _, uuid := range report.DanglingPointers {
		if err = r.kv.Delete(ctx, store.UUIDAccountKey(uuid)); err != nil {
			return report, fmt.Errorf("error deleting dangling pointer of %q: %w", uuid, err)
		}
		log.Info().Str("func", "*reconciler.Reconcile").Str("uuid", uuid).Msg("dangling pointer deleted")
	}

	for _, username := range report.MissingPointers {
		uuid := missing[username]
		err = r.kv.Create(ctx, store.UUIDAccountKey(uuid), username)
		if errors.Is(err, store.ErrKeyExists) {
			log.Warn().Str("func", "*reconciler.Reconcile").Str("uuid", uuid).Str("username", username).
				Msg("identity claimed by several accounts, keeping the first")
			continue
		}
		if err != nil {
			return report, fmt.Errorf("error restoring pointer of %q: %w", username, err)
		}
		log.Info().Str("func", "*reconciler.Reconcile").Str("uuid", uuid).Str("username", username).
			Msg("pointer restored")
	}

	report.Fixed = true
	return report, nil
}
