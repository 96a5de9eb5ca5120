// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ShareRef is the current share record format: a pointer at a live deck.
//
// Share records never hold a copy of the deck text; the referenced deck is
// looked up every time the share is resolved. Records created before this
// format hold the deck text verbatim instead of a JSON ShareRef.
type ShareRef struct {
	// User is the deck identity that owns the shared deck.
	User string `json:"user"`

	// DeckID is the id of the shared deck inside the owner's collection.
	DeckID string `json:"deckId"`
}

// IsComplete reports whether both halves of the reference are present.
func (s ShareRef) IsComplete() bool {
	return s.User != "" && s.DeckID != ""
}
