package game

import "github.com/lox/trucoforbots/internal/deck"

// PlayedCard is a card on the table, tagged with the seat that played it
type PlayedCard struct {
	Seat *Seat
	Card deck.Card
}

// TrickResult is the outcome of one resolved round
type TrickResult struct {
	Winner *Seat // nil when Parda
	Parda  bool
}

// ResolveTrick determines the winner of a round from the cards played,
// one per active seat. The scan tracks the current strongest card; any
// later card matching that strength marks the round parda, and the parda
// mark persists even if a still stronger card follows. A round where all
// strengths are distinct always has a unique winner.
func ResolveTrick(plays []PlayedCard) TrickResult {
	if len(plays) == 0 {
		return TrickResult{Parda: true}
	}

	winner := plays[0].Seat
	best := plays[0].Card.TrucoWeight()
	parda := false

	for _, play := range plays[1:] {
		w := play.Card.TrucoWeight()
		switch {
		case w > best:
			best = w
			winner = play.Seat
		case w == best:
			parda = true
		}
	}

	if parda {
		return TrickResult{Parda: true}
	}
	return TrickResult{Winner: winner}
}
