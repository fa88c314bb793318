package server

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lox/trucoforbots/internal/deck"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
)

// MessageSender delivers server messages to one client. Connections
// implement it; tests substitute an in-memory recorder.
type MessageSender interface {
	SendMessage(msg *Message) error
}

// seatSlot binds a match seat to its transport: a live connection, a
// built-in agent, or neither once a player has gone.
type seatSlot struct {
	seatID string
	name   string
	sender MessageSender
	agent  game.Agent
	gone   bool
}

// Room hosts one match and the players seated at it. The match starts
// as soon as the configured number of seats is filled.
type Room struct {
	id     string
	cfg    RoomConfig
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand

	mu         sync.Mutex
	slots      []*seatSlot
	match      *game.Match
	chantTimer *quartz.Timer
}

// NewRoom creates an empty room from a room configuration
func NewRoom(id string, cfg RoomConfig, logger *log.Logger, clock quartz.Clock) *Room {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Room{
		id:     id,
		cfg:    cfg,
		logger: logger.WithPrefix("room").With("room", id),
		clock:  clock,
		rng:    randutil.New(seed),
	}
}

// ID returns the room identifier
func (r *Room) ID() string {
	return r.id
}

// Info returns lightweight room metadata for lobby listings
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := "waiting"
	if r.match != nil {
		status = "playing"
		if r.match.State() == game.StateFinished {
			status = "finished"
		}
	}

	return RoomInfo{
		ID:          r.id,
		Name:        r.cfg.Name,
		Players:     len(r.slots),
		Capacity:    r.cfg.Players,
		TargetScore: r.cfg.TargetScore,
		FlorEnabled: r.cfg.FlorEnabled,
		Status:      status,
	}
}

// Join seats a player in the room. The joined confirmation is sent
// before any match traffic so clients always learn their seat first.
func (r *Room) Join(playerName string, sender MessageSender) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match != nil {
		return "", fmt.Errorf("room %s has already started", r.id)
	}
	if len(r.slots) >= r.cfg.Players {
		return "", fmt.Errorf("room %s is full", r.id)
	}

	seatID := gonanoid.Must(10)
	index := len(r.slots)
	r.slots = append(r.slots, &seatSlot{seatID: seatID, name: playerName, sender: sender})
	r.logger.Info("player joined", "player", playerName, "seat", seatID)

	team := game.TeamA
	if index%2 == 1 {
		team = game.TeamB
	}
	if msg, err := NewMessage(MessageTypeJoined, JoinedData{
		RoomID:    r.id,
		SeatID:    seatID,
		SeatIndex: index,
		Team:      team.String(),
	}); err == nil {
		_ = sender.SendMessage(msg)
	}

	if len(r.slots) == r.cfg.Players {
		if err := r.start(); err != nil {
			return "", err
		}
	}
	return seatID, nil
}

// AddNPC seats a built-in opponent in the room
func (r *Room) AddNPC(name, strategy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match != nil {
		return fmt.Errorf("room %s has already started", r.id)
	}
	if len(r.slots) >= r.cfg.Players {
		return fmt.Errorf("room %s is full", r.id)
	}

	r.slots = append(r.slots, &seatSlot{
		seatID: gonanoid.Must(10),
		name:   name,
		agent:  game.ResolveAgent(strategy),
	})
	r.logger.Info("npc seated", "npc", name, "strategy", strategy)

	if len(r.slots) == r.cfg.Players {
		return r.start()
	}
	return nil
}

// start builds the match from the assembled roster and deals the first
// hand. Caller holds the lock.
func (r *Room) start() error {
	seats := make([]game.SeatConfig, len(r.slots))
	for i, slot := range r.slots {
		team := game.TeamA
		if i%2 == 1 {
			team = game.TeamB
		}
		seats[i] = game.SeatConfig{ID: slot.seatID, Name: slot.name, Team: team}
	}

	match, err := game.NewMatch(game.Config{
		Seats:       seats,
		TargetScore: r.cfg.TargetScore,
		FlorEnabled: r.cfg.FlorEnabled,
		Seed:        r.cfg.Seed,
	}, r.logger)
	if err != nil {
		return fmt.Errorf("starting room %s: %w", r.id, err)
	}
	r.match = match
	r.logger.Info("match started", "players", len(r.slots), "target", r.cfg.TargetScore)

	_, lines, err := r.match.DealNewHand()
	if err != nil {
		return err
	}
	r.broadcastState(lines)
	r.pump()
	return nil
}

// HandleCommand applies a command from a seated player
func (r *Room) HandleCommand(seatID string, data CommandData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotBySeat(seatID)
	if slot == nil || slot.agent != nil {
		return fmt.Errorf("seat %s is not in room %s", seatID, r.id)
	}
	if r.match == nil {
		return fmt.Errorf("room %s has not started", r.id)
	}

	action, err := game.ParseAction(data.Action)
	if err != nil {
		return fmt.Errorf("%w: %s", game.ErrIllegalCommand, err)
	}
	cmd := game.Command{Action: action}
	if action == game.PlayCard {
		card, err := deck.ParseCard(data.Card)
		if err != nil {
			return fmt.Errorf("%w: %s", game.ErrUnknownCard, err)
		}
		cmd.Card = card
	}

	_, lines, err := r.match.ApplyCommand(seatID, cmd)
	if err != nil {
		return err
	}

	r.stopChantTimer()
	r.broadcastState(lines)
	r.pump()
	return nil
}

// Leave marks a seat as gone. Before the match starts the seat is freed;
// afterwards the seat concedes by going to the deck as soon as it can.
func (r *Room) Leave(seatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotBySeat(seatID)
	if slot == nil {
		return
	}

	if r.match == nil {
		for i, s := range r.slots {
			if s == slot {
				r.slots = append(r.slots[:i], r.slots[i+1:]...)
				break
			}
		}
		r.logger.Info("player left before start", "player", slot.name)
		return
	}

	slot.gone = true
	slot.sender = nil
	r.logger.Info("player disconnected mid-match", "player", slot.name)
	r.pump()
}

// Abandoned reports whether a room that has seen players now has no
// connected ones left. Fresh rooms are not abandoned.
func (r *Room) Abandoned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.slots) == 0 && r.match == nil {
		return false
	}
	for _, slot := range r.slots {
		if slot.sender != nil && !slot.gone {
			return false
		}
		if slot.agent != nil {
			return false
		}
	}
	return true
}

func (r *Room) slotBySeat(seatID string) *seatSlot {
	for _, slot := range r.slots {
		if slot.seatID == seatID {
			return slot
		}
	}
	return nil
}

// pump advances the match past every seat the server controls: NPCs act
// through their strategies, vacated seats go to the deck. It stops when
// a connected human must act or the match ends. Caller holds the lock.
func (r *Room) pump() {
	for steps := 0; steps < 10000; steps++ {
		if r.match.State() == game.StateFinished {
			r.stopChantTimer()
			r.broadcastMatchEnd()
			return
		}

		if r.match.State() == game.StateAwaitingDeal {
			_, lines, err := r.match.DealNewHand()
			if err != nil {
				r.logger.Error("failed to deal next hand", "error", err)
				return
			}
			r.broadcastState(lines)
			continue
		}

		if !r.stepServerControlledSeat() {
			r.promptHumans()
			r.scheduleChantTimer()
			return
		}
	}
	r.logger.Error("room pump did not settle", "room", r.id)
}

// stepServerControlledSeat applies one action for a gone or NPC seat
// that currently has legal actions. Returns false when none does.
func (r *Room) stepServerControlledSeat() bool {
	for _, seat := range r.match.Seats() {
		legal := r.match.LegalActions(seat.ID)
		if len(legal) == 0 {
			continue
		}

		slot := r.slotBySeat(seat.ID)
		if slot == nil {
			continue
		}

		var cmd game.Command
		switch {
		case slot.gone:
			cmd = game.Command{Action: game.Mazo}
		case slot.agent != nil:
			cmd = slot.agent.Decide(r.agentView(seat, legal), r.rng)
		default:
			continue
		}

		_, lines, err := r.match.ApplyCommand(seat.ID, cmd)
		if err != nil {
			r.logger.Error("server-controlled seat played an illegal command",
				"seat", seat.Name, "command", cmd, "error", err)
			// Concede rather than wedge the room
			_, lines, err = r.match.ApplyCommand(seat.ID, game.Command{Action: game.Mazo})
			if err != nil {
				return false
			}
		}
		r.broadcastState(lines)
		return true
	}
	return false
}

func (r *Room) agentView(seat *game.Seat, legal []game.Action) game.AgentView {
	snap := r.match.CurrentState().RedactFor(seat.ID)
	cards := []deck.Card{}
	for _, s := range snap.Seats {
		if s.ID != seat.ID {
			continue
		}
		for _, code := range s.Cards {
			if card, err := deck.ParseCard(code); err == nil {
				cards = append(cards, card)
			}
		}
	}
	return game.AgentView{Snapshot: snap, SeatID: seat.ID, Cards: cards, Legal: legal}
}

// broadcastState sends every connected seat its redacted view plus the
// narration for the transition. Caller holds the lock.
func (r *Room) broadcastState(lines []string) {
	snap := r.match.CurrentState()
	for _, slot := range r.slots {
		if slot.sender == nil {
			continue
		}
		msg, err := NewMessage(MessageTypeState, StateData{
			RoomID: r.id,
			View:   snap.RedactFor(slot.seatID),
			Lines:  lines,
		})
		if err != nil {
			continue
		}
		_ = slot.sender.SendMessage(msg)
	}
}

func (r *Room) broadcastMatchEnd() {
	winner, ok := r.match.Winner()
	if !ok {
		return
	}
	a, b := r.match.Scores()
	for _, slot := range r.slots {
		if slot.sender == nil {
			continue
		}
		msg, err := NewMessage(MessageTypeMatchEnd, MatchEndData{
			RoomID: r.id,
			Winner: winner.String(),
			ScoreA: a,
			ScoreB: b,
		})
		if err != nil {
			continue
		}
		_ = slot.sender.SendMessage(msg)
	}
}

// promptHumans tells each connected seat with legal actions that it is
// expected to act. Caller holds the lock.
func (r *Room) promptHumans() {
	for _, slot := range r.slots {
		if slot.sender == nil || slot.gone {
			continue
		}
		legal := r.match.LegalActions(slot.seatID)
		if len(legal) == 0 {
			continue
		}

		data := ActionRequiredData{
			RoomID:  r.id,
			SeatID:  slot.seatID,
			Actions: actionNames(legal),
		}
		view := r.match.CurrentState().RedactFor(slot.seatID)
		for _, s := range view.Seats {
			if s.ID == slot.seatID {
				data.Cards = s.Cards
			}
		}
		if r.bidResponsePending() && r.cfg.ChantTimeout() > 0 {
			data.TimeoutSeconds = int(r.cfg.ChantTimeout() / time.Second)
		}

		if msg, err := NewMessage(MessageTypeActionRequired, data); err == nil {
			_ = slot.sender.SendMessage(msg)
		}
	}
}

func (r *Room) bidResponsePending() bool {
	snap := r.match.CurrentState()
	return snap.Hand != nil && snap.Hand.Phase == game.PhaseAwaitingBidResponse.String()
}

// scheduleChantTimer arms the decline timeout when a connected human
// owes a chant response. Caller holds the lock.
func (r *Room) scheduleChantTimer() {
	r.stopChantTimer()
	if r.cfg.ChantTimeout() <= 0 || !r.bidResponsePending() {
		return
	}

	r.chantTimer = r.clock.AfterFunc(r.cfg.ChantTimeout(), func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.chantTimer = nil

		if r.match == nil || !r.bidResponsePending() {
			return
		}
		for _, seat := range r.match.Seats() {
			legal := r.match.LegalActions(seat.ID)
			if len(legal) == 0 {
				continue
			}
			r.logger.Info("chant response timed out, declining", "seat", seat.Name)
			_, lines, err := r.match.ApplyCommand(seat.ID, game.Command{Action: game.NoQuiero})
			if err != nil {
				r.logger.Error("timeout decline rejected", "error", err)
				return
			}
			r.broadcastState(lines)
			r.pump()
			return
		}
	})
}

func (r *Room) stopChantTimer() {
	if r.chantTimer != nil {
		r.chantTimer.Stop()
		r.chantTimer = nil
	}
}
