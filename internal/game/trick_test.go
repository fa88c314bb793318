package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/trucoforbots/internal/deck"
)

func trickPlays(cards string) []PlayedCard {
	plays := []PlayedCard{}
	for i, c := range deck.MustParseCards(cards) {
		plays = append(plays, PlayedCard{Seat: &Seat{Index: i}, Card: c})
	}
	return plays
}

func TestResolveTrickUniqueWinner(t *testing.T) {
	res := ResolveTrick(trickPlays("4e 7e"))
	assert.False(t, res.Parda)
	assert.Equal(t, 1, res.Winner.Index)

	// The ace of espadas beats everything
	res = ResolveTrick(trickPlays("1e 7e 3b 2o"))
	assert.False(t, res.Parda)
	assert.Equal(t, 0, res.Winner.Index)
}

func TestResolveTrickParda(t *testing.T) {
	// Equal strength cards tie the round
	res := ResolveTrick(trickPlays("3e 3b"))
	assert.True(t, res.Parda)
	assert.Nil(t, res.Winner)

	// The false aces share a bucket below the espada and basto aces
	res = ResolveTrick(trickPlays("1o 1c"))
	assert.True(t, res.Parda)

	// A king and a knight sit in adjacent buckets and do not tie
	res = ResolveTrick(trickPlays("12e 11b"))
	assert.False(t, res.Parda)
	assert.Equal(t, 0, res.Winner.Index)
}

func TestResolveTrickPardaPersists(t *testing.T) {
	// Once two cards tie at the running maximum the round stays parda,
	// even when a strictly stronger card lands afterwards.
	res := ResolveTrick(trickPlays("3e 3b 7e 4o"))
	assert.True(t, res.Parda)
	assert.Nil(t, res.Winner)
}

func TestResolveTrickTieBelowMaxIsNotParda(t *testing.T) {
	// Two equal cards below the current best do not tie the round
	res := ResolveTrick(trickPlays("1e 4b 4o"))
	assert.False(t, res.Parda)
	assert.Equal(t, 0, res.Winner.Index)
}
