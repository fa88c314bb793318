package game

import "errors"

// Rejection taxonomy. Every malformed or mistimed command maps to one of
// these; a rejected command never mutates match state.
var (
	// ErrIllegalCommand is returned when the action is not in the seat's
	// current legal-action set (e.g. chanting envido after a card has
	// been played, or responding to a chant that is not active).
	ErrIllegalCommand = errors.New("illegal command")

	// ErrNotYourTurn is returned for card plays or chants from a seat
	// that does not hold the turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrUnknownCard is returned when the played card is not in the
	// acting seat's hand.
	ErrUnknownCard = errors.New("card not in hand")

	// ErrMatchFinished is returned for any command after game over.
	ErrMatchFinished = errors.New("match already finished")
)
