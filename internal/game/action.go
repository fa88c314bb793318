package game

import (
	"fmt"

	"github.com/lox/trucoforbots/internal/deck"
)

// Action represents a player command name
type Action int

const (
	PlayCard Action = iota
	ChantEnvido
	ChantRealEnvido
	ChantFaltaEnvido
	ChantFlor
	ChantContraFlor
	ChantContraFlorAlResto
	ChantTruco
	ChantReTruco
	ChantValeCuatro
	Quiero
	NoQuiero
	Mazo
)

var actionNames = map[Action]string{
	PlayCard:               "play_card",
	ChantEnvido:            "envido",
	ChantRealEnvido:        "real_envido",
	ChantFaltaEnvido:       "falta_envido",
	ChantFlor:              "flor",
	ChantContraFlor:        "contra_flor",
	ChantContraFlorAlResto: "contra_flor_al_resto",
	ChantTruco:             "truco",
	ChantReTruco:           "retruco",
	ChantValeCuatro:        "vale_cuatro",
	Quiero:                 "quiero",
	NoQuiero:               "no_quiero",
	Mazo:                   "mazo",
}

// String returns the wire name of the action
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction converts a wire name back into an Action.
func ParseAction(name string) (Action, error) {
	for action, n := range actionNames {
		if n == name {
			return action, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// IsChant returns true for actions that open or raise a bid
func (a Action) IsChant() bool {
	return a >= ChantEnvido && a <= ChantValeCuatro
}

// IsResponse returns true for quiero / no quiero
func (a Action) IsResponse() bool {
	return a == Quiero || a == NoQuiero
}

// Command is a single player command applied to a match. Card is only
// meaningful when Action is PlayCard.
type Command struct {
	Action Action
	Card   deck.Card
}

// PlayCardCommand builds a card play command
func PlayCardCommand(card deck.Card) Command {
	return Command{Action: PlayCard, Card: card}
}

func (c Command) String() string {
	if c.Action == PlayCard {
		return fmt.Sprintf("play %s", c.Card)
	}
	return c.Action.String()
}
