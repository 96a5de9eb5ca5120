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
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

// shareRegistry stores share references under store.ShareKey. Resolution
// always reads the owner's live collection.
type shareRegistry struct {
	kv    store.KV
	guard AccessGuard
	decks DeckStore
	ids   utils.IDGenerator
}

func NewShareRegistry(kv store.KV, guard AccessGuard, decks DeckStore, log *logger.Logger) ShareRegistry {
	log.Debug().Str("func", "NewShareRegistry").Msg("share registry created")

	return &shareRegistry{
		kv:    kv,
		guard: guard,
		decks: decks,
		ids:   utils.NewUUIDGenerator(),
	}
}

// Create stores a reference to deck req.DeckID of req.User and returns the
// share id. A protected owner must be authenticated with bearer.
func (s *shareRegistry) Create(ctx context.Context, req models.ShareRequest, bearer string) (string, error) {
	log := logger.FromContext(ctx)

	ref := models.ShareRef{User: req.User, DeckID: req.DeckID}
	if !ref.IsComplete() {
		return "", ErrMissingFields
	}

	if err := s.guard.Authorize(ctx, ref.User, bearer); err != nil {
		return "", err
	}

	value, err := json.Marshal(ref)
	if err != nil {
		return "", fmt.Errorf("error encoding share reference: %w", err)
	}

	shareID := s.ids.Generate()
	if err = s.kv.Put(ctx, store.ShareKey(shareID), string(value)); err != nil {
		log.Err(err).Str("func", "*shareRegistry.Create").Msg("share write failed")
		return "", fmt.Errorf("share write failed: %w", err)
	}

	log.Info().Str("func", "*shareRegistry.Create").Str("share_id", shareID).Str("user", ref.User).
		Str("deck_id", ref.DeckID).Msg("share created")
	return shareID, nil
}

// Resolve returns the current text of the shared deck. Records holding
// plain text instead of a reference are returned verbatim.
func (s *shareRegistry) Resolve(ctx context.Context, shareID string) (string, error) {
	if shareID == "" {
		return "", ErrMissingFields
	}

	raw, err := s.kv.Get(ctx, store.ShareKey(shareID))
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", ErrShareNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*shareRegistry.Resolve").Str("share_id", shareID).
			Msg("share lookup failed")
		return "", fmt.Errorf("share lookup failed: %w", err)
	}

	var ref models.ShareRef
	if err = json.Unmarshal([]byte(raw), &ref); err != nil || !ref.IsComplete() {
		return raw, nil
	}

	deck, err := s.decks.Find(ctx, ref.User, ref.DeckID)
	if err != nil {
		return "", err
	}
	return deck.Text, nil
}
