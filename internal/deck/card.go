package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a Spanish deck suit
type Suit int

const (
	Espada Suit = iota
	Basto
	Oro
	Copa
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Espada:
		return "espada"
	case Basto:
		return "basto"
	case Oro:
		return "oro"
	case Copa:
		return "copa"
	default:
		return "?"
	}
}

// Code returns the one-letter suit code used in the wire format
func (s Suit) Code() string {
	switch s {
	case Espada:
		return "e"
	case Basto:
		return "b"
	case Oro:
		return "o"
	case Copa:
		return "c"
	default:
		return "?"
	}
}

// Suits lists all four suits in deck order.
var Suits = []Suit{Espada, Basto, Oro, Copa}

// Rank represents a card rank. The Spanish deck used for truco has no
// eights or nines, so valid ranks are 1-7 and 10-12.
type Rank int

// Ranks lists the ten valid ranks in ascending numeric order.
var Ranks = []Rank{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Valid returns true if the rank exists in the truco deck
func (r Rank) Valid() bool {
	return (r >= 1 && r <= 7) || (r >= 10 && r <= 12)
}

func (r Rank) String() string {
	return strconv.Itoa(int(r))
}

// Card represents a playing card
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the spoken form of a card (e.g., "7 de espada")
func (c Card) String() string {
	return fmt.Sprintf("%d de %s", c.Rank, c.Suit)
}

// Code returns the compact form of a card (e.g., "7e") used in messages
// and test fixtures.
func (c Card) Code() string {
	return fmt.Sprintf("%d%s", c.Rank, c.Suit.Code())
}

// EnvidoValue returns the card's value for envido and flor counting.
// Face cards (10, 11, 12) count zero, everything else counts its rank.
func (c Card) EnvidoValue() int {
	if c.Rank >= 10 {
		return 0
	}
	return int(c.Rank)
}

// ParseCard parses the compact card form produced by Code.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var suit Suit
	switch s[len(s)-1] {
	case 'e':
		suit = Espada
	case 'b':
		suit = Basto
	case 'o':
		suit = Oro
	case 'c':
		suit = Copa
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	rank := Rank(n)
	if !rank.Valid() {
		return Card{}, fmt.Errorf("rank %d does not exist in a truco deck", n)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCards parses a space-separated list of compact card codes,
// panicking on malformed input. Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, card)
	}
	return cards
}
