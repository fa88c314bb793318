package game

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/trucoforbots/internal/deck"
	"github.com/lox/trucoforbots/internal/randutil"
)

// MatchState is the lifecycle state of a match
type MatchState int

const (
	StateAwaitingDeal MatchState = iota
	StateHandInProgress
	StateFinished
)

// String returns the string representation of a match state
func (s MatchState) String() string {
	switch s {
	case StateAwaitingDeal:
		return "awaiting_deal"
	case StateHandInProgress:
		return "hand_in_progress"
	case StateFinished:
		return "finished"
	default:
		return "?"
	}
}

// SeatConfig describes one participant in the roster
type SeatConfig struct {
	ID   string
	Name string
	Team Team
}

// Config holds the rule variants and roster for a match
type Config struct {
	Seats       []SeatConfig
	TargetScore int // 15 or 30 in standard play
	FlorEnabled bool
	FirstMano   int   // seat index that is mano for the first hand
	Seed        int64 // 0 seeds from the wall clock
}

// DefaultConfig returns a two-player match to 30 without flor
func DefaultConfig() Config {
	return Config{
		Seats: []SeatConfig{
			{ID: "p1", Name: "Player 1", Team: TeamA},
			{ID: "p2", Name: "Player 2", Team: TeamB},
		},
		TargetScore: 30,
	}
}

// Validate checks the config is playable
func (c Config) Validate() error {
	n := len(c.Seats)
	if n != 2 && n != 4 && n != 6 {
		return fmt.Errorf("seat count must be 2, 4 or 6, got %d", n)
	}
	for i, s := range c.Seats {
		if s.ID == "" {
			return fmt.Errorf("seat %d has no id", i)
		}
		// Teams alternate around the table so every seat is followed
		// by an opponent.
		want := TeamA
		if i%2 == 1 {
			want = TeamB
		}
		if s.Team != want {
			return fmt.Errorf("seat %d must be on team %s", i, want)
		}
	}
	if c.TargetScore < 1 {
		return fmt.Errorf("target score must be positive, got %d", c.TargetScore)
	}
	if c.FirstMano < 0 || c.FirstMano >= n {
		return fmt.Errorf("first mano %d out of range", c.FirstMano)
	}
	return nil
}

// Match is a self-contained truco match. All transitions are synchronous:
// a command either mutates state and returns the resulting events, or is
// rejected and changes nothing. Match methods are not safe for concurrent
// use; callers that share a match across goroutines serialize access.
type Match struct {
	id      uuid.UUID
	cfg     Config
	seats   []*Seat
	scores  [2]int
	mano    int
	handNum int
	hand    *Hand
	state   MatchState
	winner  Team

	rng       *rand.Rand
	logger    *log.Logger
	bus       EventBus
	formatter *EventFormatter
	pending   []GameEvent
}

// NewMatch creates a match from a validated config. Pass a nil logger to
// silence engine logging.
func NewMatch(cfg Config, logger *log.Logger) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match config: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Match{
		id:        uuid.New(),
		cfg:       cfg,
		state:     StateAwaitingDeal,
		rng:       randutil.New(seed),
		logger:    logger,
		bus:       NewEventBus(),
		formatter: NewEventFormatter(),
	}

	for i, sc := range cfg.Seats {
		m.seats = append(m.seats, &Seat{Index: i, ID: sc.ID, Name: sc.Name, Team: sc.Team})
	}
	return m, nil
}

// ID returns the match identifier
func (m *Match) ID() uuid.UUID {
	return m.id
}

// Seats returns the roster in table order
func (m *Match) Seats() []*Seat {
	return m.seats
}

// Scores returns the current team scores
func (m *Match) Scores() (teamA, teamB int) {
	return m.scores[TeamA], m.scores[TeamB]
}

// Winner returns the winning team once the match has finished
func (m *Match) Winner() (Team, bool) {
	return m.winner, m.state == StateFinished
}

// State returns the match lifecycle state
func (m *Match) State() MatchState {
	return m.state
}

// Events returns the event bus for subscribing to match events
func (m *Match) Events() EventBus {
	return m.bus
}

func (m *Match) now() time.Time {
	return time.Now()
}

func (m *Match) emit(event GameEvent) {
	m.pending = append(m.pending, event)
	m.bus.Publish(event)
	m.logger.Debug("game event", "match", m.id, "type", event.EventType())
}

// award is the single score mutation point. It also detects game over,
// which can interrupt a hand mid-resolution (an envido win can end the
// match before any card is played).
func (m *Match) award(team Team, points int, reason string) {
	m.scores[team] += points
	m.emit(ScoreUpdateEvent{
		Team:      team,
		Points:    points,
		Reason:    reason,
		TotalA:    m.scores[TeamA],
		TotalB:    m.scores[TeamB],
		timestamp: m.now(),
	})
	m.logger.Info("points awarded", "match", m.id, "team", team, "points", points, "reason", reason)

	if m.scores[team] >= m.cfg.TargetScore {
		m.state = StateFinished
		m.winner = team
		if m.hand != nil {
			m.hand.phase = PhaseHandOver
		}
		m.emit(MatchEndEvent{
			WinnerTeam: team,
			TotalA:     m.scores[TeamA],
			TotalB:     m.scores[TeamB],
			timestamp:  m.now(),
		})
		m.logger.Info("match finished", "match", m.id, "winner", team)
	}
}

func (m *Match) seatByID(id string) *Seat {
	for _, s := range m.seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// DealNewHand deals the next hand. It is an explicit step rather than an
// automatic follow-on from hand end, so transports can pace the match.
func (m *Match) DealNewHand() (*Snapshot, []string, error) {
	if m.state == StateFinished {
		return nil, nil, ErrMatchFinished
	}
	if m.hand != nil && m.hand.phase != PhaseHandOver {
		return nil, nil, fmt.Errorf("%w: a hand is already in progress", ErrIllegalCommand)
	}
	m.pending = nil

	d := deck.NewSeeded(m.rng.Int64())
	deal := make([][]deck.Card, len(m.seats))
	for i := range m.seats {
		deal[i] = d.DealN(3)
	}
	m.startHand(deal)

	return m.snapshot(), m.formatter.FormatAll(m.pending), nil
}

// startHand rotates the mano and installs the next hand from an already
// dealt set of cards.
func (m *Match) startHand(deal [][]deck.Card) {
	if m.handNum == 0 {
		m.mano = m.cfg.FirstMano
	} else {
		m.mano = (m.mano + 1) % len(m.seats)
	}
	m.handNum++

	m.hand = newHand(m, m.handNum, m.mano, deal)
	m.state = StateHandInProgress
	m.emit(HandStartEvent{HandNumber: m.handNum, Mano: m.seats[m.mano], Seats: m.seats, timestamp: m.now()})
	m.logger.Info("hand dealt", "match", m.id, "hand", m.handNum, "mano", m.seats[m.mano].Name)
}

// LegalActions returns the commands currently acceptable from the seat.
// An empty set means the seat has nothing to do right now.
func (m *Match) LegalActions(seatID string) []Action {
	if m.state != StateHandInProgress {
		return nil
	}
	seat := m.seatByID(seatID)
	if seat == nil {
		return nil
	}
	return m.hand.legalActions(seat.Index)
}

// ApplyCommand applies one command from a seat. On success it returns the
// post-command snapshot and the human-readable lines for everything that
// happened; on rejection the match is unchanged.
func (m *Match) ApplyCommand(seatID string, cmd Command) (*Snapshot, []string, error) {
	if m.state == StateFinished {
		return nil, nil, ErrMatchFinished
	}
	seat := m.seatByID(seatID)
	if seat == nil {
		return nil, nil, fmt.Errorf("%w: unknown seat %q", ErrIllegalCommand, seatID)
	}
	if m.state != StateHandInProgress || m.hand.phase == PhaseHandOver {
		return nil, nil, fmt.Errorf("%w: no hand in progress", ErrIllegalCommand)
	}
	m.pending = nil

	var err error
	switch {
	case cmd.Action == PlayCard:
		err = m.hand.playCard(seat.Index, cmd.Card)
	case cmd.Action.IsChant():
		kind, ok := bidKindForAction(cmd.Action)
		if !ok {
			err = fmt.Errorf("%w: %s", ErrIllegalCommand, cmd.Action)
			break
		}
		err = m.hand.chant(seat.Index, kind)
	case cmd.Action.IsResponse():
		err = m.hand.respond(seat.Index, cmd.Action == Quiero)
	case cmd.Action == Mazo:
		err = m.hand.quit(seat.Index)
	default:
		err = fmt.Errorf("%w: %s", ErrIllegalCommand, cmd.Action)
	}
	if err != nil {
		m.logger.Debug("command rejected", "match", m.id, "seat", seatID, "command", cmd, "error", err)
		return nil, nil, err
	}

	return m.snapshot(), m.formatter.FormatAll(m.pending), nil
}

// CurrentState returns a snapshot of the match. It never mutates state
// and may be called at any point in the lifecycle.
func (m *Match) CurrentState() *Snapshot {
	return m.snapshot()
}
