package game

import (
	"fmt"
	"strings"
)

// EventFormatter renders game events as the human-readable log lines
// returned from ApplyCommand and broadcast by the transport.
type EventFormatter struct{}

// NewEventFormatter creates a new event formatter
func NewEventFormatter() *EventFormatter {
	return &EventFormatter{}
}

// Format renders a single event into one log line
func (f *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case HandStartEvent:
		return fmt.Sprintf("hand %d: %s is mano", e.HandNumber, e.Mano.Name)

	case CardPlayedEvent:
		return fmt.Sprintf("%s plays %s", e.Seat.Name, e.Card)

	case TrickResolvedEvent:
		if e.Parda {
			return fmt.Sprintf("round %d is parda", e.Round)
		}
		return fmt.Sprintf("round %d goes to %s", e.Round, e.Winner.Name)

	case ChantEvent:
		return fmt.Sprintf("%s chants %s!", e.Seat.Name, e.Kind)

	case ChantResponseEvent:
		if e.Accepted {
			return fmt.Sprintf("%s accepts the %s (quiero)", e.Seat.Name, e.Kind)
		}
		if e.Kind.Family() == FamilyFlor {
			return fmt.Sprintf("%s backs down (con flor me achico)", e.Seat.Name)
		}
		return fmt.Sprintf("%s declines the %s (no quiero)", e.Seat.Name, e.Kind)

	case EnvidoResultEvent:
		return fmt.Sprintf("envido: team A %d vs team B %d, team %s wins %d point(s)",
			e.BestA, e.BestB, e.WinnerTeam, e.Points)

	case FlorResultEvent:
		if e.Uncontested {
			return fmt.Sprintf("flor: team %s collects %d points", e.WinnerTeam, e.Points)
		}
		return fmt.Sprintf("flor: team A %d vs team B %d, team %s wins %d point(s)",
			e.BestA, e.BestB, e.WinnerTeam, e.Points)

	case HandEndEvent:
		switch e.Reason {
		case "mazo":
			return fmt.Sprintf("team %s takes the hand for %d point(s): opponents went to the deck",
				e.WinnerTeam, e.Points)
		case "no_quiero":
			return fmt.Sprintf("team %s takes the hand for %d point(s): chant declined",
				e.WinnerTeam, e.Points)
		default:
			return fmt.Sprintf("team %s wins the hand for %d point(s)", e.WinnerTeam, e.Points)
		}

	case ScoreUpdateEvent:
		return fmt.Sprintf("score: team A %d - team B %d", e.TotalA, e.TotalB)

	case MatchEndEvent:
		return fmt.Sprintf("team %s wins the match %d-%d", e.WinnerTeam, e.TotalA, e.TotalB)

	default:
		return strings.ToLower(string(event.EventType()))
	}
}

// FormatAll renders a batch of events in order
func (f *EventFormatter) FormatAll(events []GameEvent) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, f.Format(ev))
	}
	return lines
}
