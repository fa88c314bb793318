package deck

// TrucoWeight returns the trick-taking strength of a card. Higher beats
// lower; cards sharing a bucket (threes, twos, black aces, face cards,
// false sevens, sixes, fives, fours) tie against each other.
//
// The four manilhas sit on top: 1-espada, 1-basto, 7-espada, 7-oro.
func (c Card) TrucoWeight() int {
	switch {
	case c.Rank == 1 && c.Suit == Espada:
		return 14
	case c.Rank == 1 && c.Suit == Basto:
		return 13
	case c.Rank == 7 && c.Suit == Espada:
		return 12
	case c.Rank == 7 && c.Suit == Oro:
		return 11
	case c.Rank == 3:
		return 10
	case c.Rank == 2:
		return 9
	case c.Rank == 1:
		return 8 // 1-oro and 1-copa
	case c.Rank == 12:
		return 7
	case c.Rank == 11:
		return 6
	case c.Rank == 10:
		return 5
	case c.Rank == 7:
		return 4 // the false sevens, 7-basto and 7-copa
	case c.Rank == 6:
		return 3
	case c.Rank == 5:
		return 2
	case c.Rank == 4:
		return 1
	default:
		return 0
	}
}

// Beats returns true if c strictly outranks other in trick resolution
func (c Card) Beats(other Card) bool {
	return c.TrucoWeight() > other.TrucoWeight()
}
