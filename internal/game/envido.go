package game

import "github.com/lox/trucoforbots/internal/deck"

// EnvidoPoints computes the envido value of a 3-card hand. For every
// suit holding two or more cards the value is 20 plus the two highest
// envido card values in that suit; with no such suit it is the single
// highest envido card value.
func EnvidoPoints(cards []deck.Card) int {
	bySuit := make(map[deck.Suit][]int, 4)
	highest := 0
	for _, c := range cards {
		v := c.EnvidoValue()
		bySuit[c.Suit] = append(bySuit[c.Suit], v)
		if v > highest {
			highest = v
		}
	}

	best := -1
	for _, values := range bySuit {
		if len(values) < 2 {
			continue
		}
		top, second := 0, 0
		for _, v := range values {
			if v > top {
				top, second = v, top
			} else if v > second {
				second = v
			}
		}
		if points := 20 + top + second; points > best {
			best = points
		}
	}

	if best >= 0 {
		return best
	}
	return highest
}

// HasFlor reports whether a 3-card hand is a flor (all one suit)
func HasFlor(cards []deck.Card) bool {
	if len(cards) != 3 {
		return false
	}
	return cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
}

// FlorPoints computes the flor value: 20 plus all three envido values.
// Only meaningful when HasFlor holds.
func FlorPoints(cards []deck.Card) int {
	points := 20
	for _, c := range cards {
		points += c.EnvidoValue()
	}
	return points
}
