// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// Deck is a single deck list owned by a deck identity.
//
// Text is opaque to the server; by convention its first line is the deck
// title and the remaining lines are card entries and section headers.
type Deck struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Title returns the first line of the deck text.
func (d Deck) Title() string {
	title, _, _ := strings.Cut(d.Text, "\n")
	return strings.TrimRight(title, "\r")
}

// DeckCollection is the ordered list of decks stored for one deck identity.
type DeckCollection []Deck

// Find returns the deck with the given id.
func (c DeckCollection) Find(deckID string) (Deck, bool) {
	for _, d := range c {
		if d.ID == deckID {
			return d, true
		}
	}
	return Deck{}, false
}
