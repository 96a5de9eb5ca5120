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
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

// SampleDeckText is the content of the deck every new collection starts with.
const SampleDeckText = `Sample Deck
#Creatures
4x Lightning Bolt
4x Llanowar Elves
2x Serra Angel
2x Shivan Dragon

#Lands
4x Forest
4x Mountain
4x Plains
4x Island
4x Swamp

#Artifacts
2x Sol Ring
2x Lightning Greaves

#Enchantments
2x Oblivion Ring
2x Rancor

#Spells
4x Counterspell
4x Giant Growth`

// deckStore keeps one collection document per deck identity under
// store.DecksKey. Collections written before that namespace existed live
// under store.LegacyDecksKey and are copied over on first read.
type deckStore struct {
	kv  store.KV
	ids utils.IDGenerator

	// maxBytes is the largest accepted collection body.
	maxBytes int64
}

func NewDeckStore(kv store.KV, maxBytes int64, log *logger.Logger) DeckStore {
	log.Debug().Str("func", "NewDeckStore").Int64("max_bytes", maxBytes).Msg("deck store created")

	return &deckStore{
		kv:       kv,
		ids:      utils.NewUUIDGenerator(),
		maxBytes: maxBytes,
	}
}

// Read returns the collection of uuid. It never reports a missing
// collection: a legacy collection is migrated, and an unknown identity gets
// the sample collection. Either is persisted under the canonical key, and
// a canonical value that needed upgrading is written back.
func (s *deckStore) Read(ctx context.Context, uuid string) (models.DeckCollection, error) {
	log := logger.FromContext(ctx)

	decks, found, err := s.readCanonical(ctx, uuid)
	if err != nil || found {
		return decks, err
	}

	decks, migrated, err := s.readLegacy(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if !migrated {
		decks = models.DeckCollection{{ID: s.ids.Generate(), Text: SampleDeckText}}
	}

	value, err := encodeDeckCollection(decks)
	if err != nil {
		return nil, fmt.Errorf("error encoding deck collection: %w", err)
	}

	err = s.kv.Create(ctx, store.DecksKey(uuid), value)
	if errors.Is(err, store.ErrKeyExists) {
		// a concurrent request initialised the collection first
		decks, _, err = s.readCanonical(ctx, uuid)
		return decks, err
	}
	if err != nil {
		log.Err(err).Str("func", "*deckStore.Read").Str("uuid", uuid).Msg("deck collection init failed")
		return nil, fmt.Errorf("deck collection init failed: %w", err)
	}

	log.Info().Str("func", "*deckStore.Read").Str("uuid", uuid).Bool("migrated", migrated).
		Msg("deck collection initialised")
	return decks, nil
}

// Write validates body and replaces the collection of uuid with its
// canonical form. Nothing is written when validation fails.
func (s *deckStore) Write(ctx context.Context, uuid string, body []byte) (models.DeckCollection, error) {
	log := logger.FromContext(ctx)

	if int64(len(body)) > s.maxBytes {
		log.Info().Str("func", "*deckStore.Write").Str("uuid", uuid).Int("size", len(body)).Msg("deck collection too large")
		return nil, ErrPayloadTooLarge
	}

	decks, err := parseDeckCollection(body)
	if err != nil {
		log.Info().Err(err).Str("func", "*deckStore.Write").Str("uuid", uuid).Msg("deck collection rejected")
		return nil, err
	}

	value, err := encodeDeckCollection(decks)
	if err != nil {
		return nil, fmt.Errorf("error encoding deck collection: %w", err)
	}

	if err = s.kv.Put(ctx, store.DecksKey(uuid), value); err != nil {
		log.Err(err).Str("func", "*deckStore.Write").Str("uuid", uuid).Msg("deck collection write failed")
		return nil, fmt.Errorf("deck collection write failed: %w", err)
	}

	return decks, nil
}

// Find returns deck deckID of owner. A missing collection or deck yields
// ErrStaleReference. Nothing is created or migrated.
func (s *deckStore) Find(ctx context.Context, owner, deckID string) (models.Deck, error) {
	raw, err := s.kv.Get(ctx, store.DecksKey(owner))
	if errors.Is(err, store.ErrKeyNotFound) && isLegacyIdentity(owner) {
		raw, err = s.kv.Get(ctx, store.LegacyDecksKey(owner))
	}
	if errors.Is(err, store.ErrKeyNotFound) {
		return models.Deck{}, ErrStaleReference
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*deckStore.Find").Str("owner", owner).Msg("deck lookup failed")
		return models.Deck{}, fmt.Errorf("deck lookup failed: %w", err)
	}

	decks, _ := decodeStoredDecks(raw).upgrade(s.ids)
	deck, ok := decks.Find(deckID)
	if !ok {
		return models.Deck{}, ErrStaleReference
	}
	return deck, nil
}

func (s *deckStore) readCanonical(ctx context.Context, uuid string) (models.DeckCollection, bool, error) {
	log := logger.FromContext(ctx)

	raw, err := s.kv.Get(ctx, store.DecksKey(uuid))
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*deckStore.readCanonical").Str("uuid", uuid).Msg("deck collection lookup failed")
		return nil, false, fmt.Errorf("deck collection lookup failed: %w", err)
	}

	decks, changed := decodeStoredDecks(raw).upgrade(s.ids)
	if !changed {
		return decks, true, nil
	}

	value, err := encodeDeckCollection(decks)
	if err != nil {
		return nil, false, fmt.Errorf("error encoding deck collection: %w", err)
	}
	if err = s.kv.Put(ctx, store.DecksKey(uuid), value); err != nil {
		log.Err(err).Str("func", "*deckStore.readCanonical").Str("uuid", uuid).Msg("deck collection upgrade failed")
		return nil, false, fmt.Errorf("deck collection upgrade failed: %w", err)
	}

	log.Info().Str("func", "*deckStore.readCanonical").Str("uuid", uuid).Msg("deck collection upgraded")
	return decks, true, nil
}

func (s *deckStore) readLegacy(ctx context.Context, uuid string) (models.DeckCollection, bool, error) {
	if !isLegacyIdentity(uuid) {
		return nil, false, nil
	}

	raw, err := s.kv.Get(ctx, store.LegacyDecksKey(uuid))
	if errors.Is(err, store.ErrKeyNotFound) || (err == nil && raw == "") {
		// an empty legacy value holds no decks
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*deckStore.readLegacy").Str("uuid", uuid).
			Msg("legacy deck collection lookup failed")
		return nil, false, fmt.Errorf("legacy deck collection lookup failed: %w", err)
	}

	decks, _ := decodeStoredDecks(raw).upgrade(s.ids)
	return decks, true, nil
}

// isLegacyIdentity reports whether the bare identity may be used as a key.
// Every other key namespace contains a colon, so identities with one could
// alias account, nonce or share records.
func isLegacyIdentity(uuid string) bool {
	return uuid != "" && !strings.Contains(uuid, ":")
}
