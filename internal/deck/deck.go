package deck

import (
	"math/rand/v2"
	"time"

	"github.com/lox/trucoforbots/internal/randutil"
)

// Size is the number of cards in a truco deck
const Size = 40

// Deck represents a 40-card Spanish deck
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new shuffled deck seeded from the wall clock.
func New() *Deck {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a new shuffled deck with a deterministic seed, for
// reproducible deals in tests and simulations.
func NewSeeded(seed int64) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   randutil.New(seed),
	}
	d.fill()
	d.Shuffle()
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals n cards from the deck
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Deal()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Reset restores the deck to the full 40 cards and reshuffles
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}
