// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeck_Title(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "multi-line", text: "Burn\n4x Lightning Bolt", want: "Burn"},
		{name: "single line", text: "Only title", want: "Only title"},
		{name: "crlf", text: "Windows deck\r\n1x Island", want: "Windows deck"},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deck{Text: tt.text}.Title())
		})
	}
}

func TestDeckCollection_Find(t *testing.T) {
	c := DeckCollection{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}

	d, ok := c.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "B", d.Text)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestShareRef_IsComplete(t *testing.T) {
	assert.True(t, ShareRef{User: "u", DeckID: "d"}.IsComplete())
	assert.False(t, ShareRef{User: "u"}.IsComplete())
	assert.False(t, ShareRef{DeckID: "d"}.IsComplete())
}

func TestAppBuildInfo_DefaultsToNotAvailable(t *testing.T) {
	info := NewAppBuildInfo("1.0.0", "", "")

	assert.Equal(t, "1.0.0", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
	assert.Equal(t, "N/A", info.BuildCommit())
	assert.Contains(t, info.String(), "Build version: 1.0.0")
}
