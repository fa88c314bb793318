package game

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/lox/trucoforbots/internal/deck"
)

// AgentView is what a strategy sees when asked to act: the redacted
// snapshot, its own cards, and the legal actions for this decision.
type AgentView struct {
	Snapshot *Snapshot
	SeatID   string
	Cards    []deck.Card
	Legal    []Action
}

// Agent decides a command from a seat's view of the match. Implementations
// must return one of the legal actions.
type Agent interface {
	Name() string
	Decide(view AgentView, rng *rand.Rand) Command
}

func hasAction(legal []Action, a Action) bool {
	for _, l := range legal {
		if l == a {
			return true
		}
	}
	return false
}

func sortedByWeight(cards []deck.Card) []deck.Card {
	out := append([]deck.Card{}, cards...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].TrucoWeight() < out[j].TrucoWeight()
	})
	return out
}

// RandomAgent picks uniformly among legal actions, except that it only
// goes to the deck as a last resort.
type RandomAgent struct{}

func (RandomAgent) Name() string { return "random" }

func (RandomAgent) Decide(view AgentView, rng *rand.Rand) Command {
	candidates := make([]Action, 0, len(view.Legal))
	for _, a := range view.Legal {
		if a != Mazo {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return Command{Action: Mazo}
	}

	action := candidates[rng.IntN(len(candidates))]
	if action == PlayCard {
		return PlayCardCommand(view.Cards[rng.IntN(len(view.Cards))])
	}
	return Command{Action: action}
}

// CallingAgent accepts every chant, never raises, and leads its
// strongest card. The truco equivalent of a calling station.
type CallingAgent struct{}

func (CallingAgent) Name() string { return "calling" }

func (CallingAgent) Decide(view AgentView, rng *rand.Rand) Command {
	if hasAction(view.Legal, Quiero) {
		return Command{Action: Quiero}
	}
	if hasAction(view.Legal, PlayCard) {
		sorted := sortedByWeight(view.Cards)
		return PlayCardCommand(sorted[len(sorted)-1])
	}
	return Command{Action: Mazo}
}

// CautiousAgent never chants, plays its weakest card, and only accepts a
// bid when its hand clears a fixed threshold.
type CautiousAgent struct {
	// EnvidoThreshold is the minimum envido points to accept an envido
	// chant; zero means the default of 27.
	EnvidoThreshold int
}

func (CautiousAgent) Name() string { return "cautious" }

func (c CautiousAgent) Decide(view AgentView, rng *rand.Rand) Command {
	threshold := c.EnvidoThreshold
	if threshold == 0 {
		threshold = 27
	}

	if hasAction(view.Legal, Quiero) {
		bid := view.Snapshot.Hand.Bid
		accept := false
		switch bid.Family {
		case "envido":
			accept = EnvidoPoints(view.Cards) >= threshold
		case "flor":
			accept = true // holding flor is the precondition for responding
		default:
			// Accept truco while holding at least one of the top buckets.
			for _, card := range view.Cards {
				if card.TrucoWeight() >= 10 {
					accept = true
					break
				}
			}
		}
		if accept {
			return Command{Action: Quiero}
		}
		return Command{Action: NoQuiero}
	}

	if hasAction(view.Legal, PlayCard) {
		return PlayCardCommand(sortedByWeight(view.Cards)[0])
	}
	return Command{Action: Mazo}
}

// AggressiveAgent chants whenever it can, raises most bids, and plays
// its strongest card.
type AggressiveAgent struct{}

func (AggressiveAgent) Name() string { return "aggressive" }

func (AggressiveAgent) Decide(view AgentView, rng *rand.Rand) Command {
	// Prefer escalating: flor, then envido, then truco.
	for _, a := range []Action{ChantFlor, ChantFaltaEnvido, ChantEnvido, ChantValeCuatro, ChantReTruco, ChantTruco} {
		if hasAction(view.Legal, a) && rng.Float64() < 0.7 {
			return Command{Action: a}
		}
	}
	if hasAction(view.Legal, Quiero) {
		return Command{Action: Quiero}
	}
	if hasAction(view.Legal, PlayCard) {
		sorted := sortedByWeight(view.Cards)
		return PlayCardCommand(sorted[len(sorted)-1])
	}
	return Command{Action: Mazo}
}

// ResolveAgent maps a strategy name to an agent, defaulting to random.
func ResolveAgent(name string) Agent {
	switch strings.ToLower(name) {
	case "calling", "call", "station":
		return CallingAgent{}
	case "cautious", "tight":
		return CautiousAgent{}
	case "aggressive", "aggro":
		return AggressiveAgent{}
	default:
		return RandomAgent{}
	}
}
