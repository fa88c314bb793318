package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/trucoforbots/internal/deck"
)

func TestEnvidoPoints(t *testing.T) {
	tests := []struct {
		cards string
		want  int
	}{
		{"7e 2e 4b", 29},   // 20 + 7 + 2
		{"4o 5o 12b", 29},  // 20 + 5 + 4, the face card contributes 0
		{"2c 5c 10c", 27},  // 20 + 5 + 2
		{"7e 6e 5e", 33},   // flor hand still counts its best two
		{"12e 11e 4b", 20}, // two face cards same suit
		{"12e 7e 3b", 27},  // face card contributes zero
		{"7e 5b 2o", 7},    // no pair: highest card value
		{"12e 11b 10o", 0}, // all face cards, no pair
		{"1e 1b 1o", 1},
		{"2e 3e 4e", 27}, // best two of three same suit: 4 + 3
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvidoPoints(deck.MustParseCards(tt.cards)))
		})
	}
}

func TestHasFlor(t *testing.T) {
	assert.True(t, HasFlor(deck.MustParseCards("7e 5e 4e")))
	assert.True(t, HasFlor(deck.MustParseCards("10c 11c 12c")))
	assert.False(t, HasFlor(deck.MustParseCards("7e 5e 4b")))
	assert.False(t, HasFlor(deck.MustParseCards("7e 5e")))
}

func TestFlorPoints(t *testing.T) {
	assert.Equal(t, 36, FlorPoints(deck.MustParseCards("7e 5e 4e")))
	assert.Equal(t, 20, FlorPoints(deck.MustParseCards("10c 11c 12c")))
	assert.Equal(t, 26, FlorPoints(deck.MustParseCards("1o 2o 3o")))
}
