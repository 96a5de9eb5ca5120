// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

// storedDecks is a deck collection as found in the store. Each shape that
// was ever persisted has its own variant with an upgrade to the current
// shape.
type storedDecks interface {
	// upgrade converts the stored value to a collection with unique
	// non-empty ids. changed reports whether the result differs from what
	// is stored.
	upgrade(ids utils.IDGenerator) (decks models.DeckCollection, changed bool)
}

// legacyString is the earliest format: the whole value is one deck text.
type legacyString string

// legacyArray is an array whose elements are deck texts or loosely shaped
// deck objects.
type legacyArray []json.RawMessage

// currentDecks is the [{id, text}] array.
type currentDecks models.DeckCollection

func decodeStoredDecks(raw string) storedDecks {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return currentDecks{}
	}
	if !json.Valid(trimmed) {
		return legacyString(raw)
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return legacyString(raw)
		}
		decks := make(currentDecks, 0, len(elems))
		for _, elem := range elems {
			deck, ok := decodeCurrentDeck(elem)
			if !ok {
				return legacyArray(elems)
			}
			decks = append(decks, deck)
		}
		return decks
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return legacyString(raw)
		}
		return legacyString(text)
	default:
		return legacyString(raw)
	}
}

// decodeCurrentDeck accepts an object with a string text and an optional
// string id.
func decodeCurrentDeck(elem json.RawMessage) (models.Deck, bool) {
	if len(elem) == 0 || elem[0] != '{' {
		return models.Deck{}, false
	}

	var obj struct {
		ID   *string `json:"id"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(elem, &obj); err != nil || obj.Text == nil {
		return models.Deck{}, false
	}

	deck := models.Deck{Text: *obj.Text}
	if obj.ID != nil {
		deck.ID = *obj.ID
	}
	return deck, true
}

func (s legacyString) upgrade(ids utils.IDGenerator) (models.DeckCollection, bool) {
	return models.DeckCollection{{ID: ids.Generate(), Text: string(s)}}, true
}

func (a legacyArray) upgrade(ids utils.IDGenerator) (models.DeckCollection, bool) {
	decks := make(models.DeckCollection, 0, len(a))
	for _, elem := range a {
		decks = append(decks, upgradeLegacyElement(elem))
	}
	decks, _ = assignIDs(decks, ids)
	return decks, true
}

func (c currentDecks) upgrade(ids utils.IDGenerator) (models.DeckCollection, bool) {
	return assignIDs(models.DeckCollection(c), ids)
}

func upgradeLegacyElement(elem json.RawMessage) models.Deck {
	var text string
	if err := json.Unmarshal(elem, &text); err == nil {
		return models.Deck{Text: text}
	}

	var obj map[string]any
	if err := json.Unmarshal(elem, &obj); err == nil && obj != nil {
		deck := models.Deck{}
		if id, ok := obj["id"].(string); ok {
			deck.ID = id
		}
		if text, ok := obj["text"].(string); ok {
			deck.Text = text
		}
		return deck
	}

	return models.Deck{Text: strings.TrimSpace(string(elem))}
}

// assignIDs gives every deck with an empty or repeated id a fresh one.
func assignIDs(decks models.DeckCollection, ids utils.IDGenerator) (models.DeckCollection, bool) {
	changed := false
	seen := make(map[string]struct{}, len(decks))
	for i := range decks {
		if _, dup := seen[decks[i].ID]; decks[i].ID == "" || dup {
			decks[i].ID = ids.Generate()
			changed = true
		}
		seen[decks[i].ID] = struct{}{}
	}
	return decks, changed
}

// parseDeckCollection validates a client supplied collection: a JSON array
// whose elements all carry a string id and a string text. Other element
// fields are ignored.
func parseDeckCollection(body []byte) (models.DeckCollection, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil || elems == nil {
		return nil, ErrInvalidShape
	}

	decks := make(models.DeckCollection, 0, len(elems))
	for _, elem := range elems {
		var obj struct {
			ID   *string `json:"id"`
			Text *string `json:"text"`
		}
		if len(elem) == 0 || elem[0] != '{' {
			return nil, ErrInvalidShape
		}
		if err := json.Unmarshal(elem, &obj); err != nil || obj.ID == nil || obj.Text == nil {
			return nil, ErrInvalidShape
		}
		decks = append(decks, models.Deck{ID: *obj.ID, Text: *obj.Text})
	}
	return decks, nil
}

// encodeDeckCollection returns the canonical stored form. An empty
// collection encodes as [].
func encodeDeckCollection(decks models.DeckCollection) (string, error) {
	if decks == nil {
		decks = models.DeckCollection{}
	}
	raw, err := json.Marshal(decks)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
