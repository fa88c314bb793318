package game

import (
	"time"

	"github.com/lox/trucoforbots/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart     EventType = "hand_start"
	EventTypeCardPlayed    EventType = "card_played"
	EventTypeTrickResolved EventType = "trick_resolved"
	EventTypeChant         EventType = "chant"
	EventTypeChantResponse EventType = "chant_response"
	EventTypeEnvidoResult  EventType = "envido_result"
	EventTypeFlorResult    EventType = "flor_result"
	EventTypeHandEnd       EventType = "hand_end"
	EventTypeScoreUpdate   EventType = "score_update"
	EventTypeMatchEnd      EventType = "match_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a match
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published when a new hand is dealt
type HandStartEvent struct {
	HandNumber int
	Mano       *Seat
	Seats      []*Seat
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published when a seat puts a card on the table
type CardPlayedEvent struct {
	Seat      *Seat
	Card      deck.Card
	Round     int
	timestamp time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// TrickResolvedEvent is published when all seats have played in a round
type TrickResolvedEvent struct {
	Round     int
	Winner    *Seat // nil on parda
	Parda     bool
	timestamp time.Time
}

func (e TrickResolvedEvent) EventType() EventType { return EventTypeTrickResolved }
func (e TrickResolvedEvent) Timestamp() time.Time { return e.timestamp }

// ChantEvent is published for every opening chant and raise
type ChantEvent struct {
	Seat      *Seat
	Kind      BidKind
	Chain     []BidKind
	timestamp time.Time
}

func (e ChantEvent) EventType() EventType { return EventTypeChant }
func (e ChantEvent) Timestamp() time.Time { return e.timestamp }

// ChantResponseEvent is published when a chant is accepted or declined
type ChantResponseEvent struct {
	Seat      *Seat
	Kind      BidKind // the chant being answered
	Accepted  bool
	timestamp time.Time
}

func (e ChantResponseEvent) EventType() EventType { return EventTypeChantResponse }
func (e ChantResponseEvent) Timestamp() time.Time { return e.timestamp }

// EnvidoResultEvent is published after an accepted envido comparison
type EnvidoResultEvent struct {
	WinnerTeam Team
	BestA      int
	BestB      int
	Points     int
	timestamp  time.Time
}

func (e EnvidoResultEvent) EventType() EventType { return EventTypeEnvidoResult }
func (e EnvidoResultEvent) Timestamp() time.Time { return e.timestamp }

// FlorResultEvent is published when flor points are awarded, either
// uncontested (only one team held flor) or after a comparison.
type FlorResultEvent struct {
	WinnerTeam  Team
	BestA       int
	BestB       int
	Points      int
	Uncontested bool
	timestamp   time.Time
}

func (e FlorResultEvent) EventType() EventType { return EventTypeFlorResult }
func (e FlorResultEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published when a hand resolves
type HandEndEvent struct {
	HandNumber int
	WinnerTeam Team
	Points     int
	Reason     string // "rounds", "no_quiero", "mazo"
	timestamp  time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// ScoreUpdateEvent is published on every score mutation
type ScoreUpdateEvent struct {
	Team      Team
	Points    int
	Reason    string
	TotalA    int
	TotalB    int
	timestamp time.Time
}

func (e ScoreUpdateEvent) EventType() EventType { return EventTypeScoreUpdate }
func (e ScoreUpdateEvent) Timestamp() time.Time { return e.timestamp }

// MatchEndEvent is published when a team reaches the target score
type MatchEndEvent struct {
	WinnerTeam Team
	TotalA     int
	TotalB     int
	timestamp  time.Time
}

func (e MatchEndEvent) EventType() EventType { return EventTypeMatchEnd }
func (e MatchEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
