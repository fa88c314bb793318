package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/game"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []*Message
}

func (f *fakeSender) SendMessage(msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeSender) byType(t MessageType) []*Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Message
	for _, m := range f.msgs {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRoomNPCsCompleteAMatch(t *testing.T) {
	room := NewRoom("TEST01", RoomConfig{
		Name:        "npc-only",
		Players:     2,
		TargetScore: 15,
		Seed:        5,
	}, testLogger(), quartz.NewReal())

	require.NoError(t, room.AddNPC("bot-a", "random"))
	require.NoError(t, room.AddNPC("bot-b", "calling"))

	// Seating the second NPC starts the match and plays it to the end
	assert.Equal(t, "finished", room.Info().Status)
}

func TestRoomHumanPlaysAgainstNPC(t *testing.T) {
	room := NewRoom("TEST02", RoomConfig{
		Name:        "mixed",
		Players:     2,
		TargetScore: 30,
		Seed:        7,
	}, testLogger(), quartz.NewReal())

	sender := &fakeSender{}
	seatID, err := room.Join("Ana", sender)
	require.NoError(t, err)
	require.NoError(t, room.AddNPC("bot", "cautious"))

	// The human is mano of hand one, so a prompt arrives immediately
	joined := sender.byType(MessageTypeJoined)
	require.Len(t, joined, 1)
	states := sender.byType(MessageTypeState)
	require.NotEmpty(t, states)
	prompts := sender.byType(MessageTypeActionRequired)
	require.NotEmpty(t, prompts)

	var prompt ActionRequiredData
	require.NoError(t, json.Unmarshal(prompts[0].Data, &prompt))
	assert.Equal(t, seatID, prompt.SeatID)
	assert.Contains(t, prompt.Actions, "play_card")
	assert.Len(t, prompt.Cards, 3)

	// The opponent's cards are hidden in every view
	var state StateData
	require.NoError(t, json.Unmarshal(states[0].Data, &state))
	for _, seat := range state.View.Seats {
		if seat.ID != seatID {
			assert.Empty(t, seat.Cards)
			assert.Equal(t, 3, seat.CardCount)
		}
	}

	// Conceding the hand moves the match along to the next one
	require.NoError(t, room.HandleCommand(seatID, CommandData{Action: "mazo"}))
	_, b := room.match.Scores()
	assert.Equal(t, 1, b)
}

func TestRoomRejectsIllegalCommands(t *testing.T) {
	room := NewRoom("TEST03", RoomConfig{Name: "strict", Players: 2, TargetScore: 30, Seed: 3}, testLogger(), quartz.NewReal())

	a := &fakeSender{}
	b := &fakeSender{}
	anaSeat, err := room.Join("Ana", a)
	require.NoError(t, err)
	brunoSeat, err := room.Join("Bruno", b)
	require.NoError(t, err)

	// Bruno is not mano and cannot open
	err = room.HandleCommand(brunoSeat, CommandData{Action: "truco"})
	assert.ErrorIs(t, err, game.ErrNotYourTurn)

	err = room.HandleCommand(anaSeat, CommandData{Action: "play_card", Card: "not-a-card"})
	assert.ErrorIs(t, err, game.ErrUnknownCard)

	err = room.HandleCommand("stranger", CommandData{Action: "mazo"})
	assert.Error(t, err)
}

func TestChantTimeoutDeclines(t *testing.T) {
	mclock := quartz.NewMock(t)
	room := NewRoom("TEST04", RoomConfig{
		Name:           "timed",
		Players:        2,
		TargetScore:    30,
		ChantTimeoutMs: 1000,
		Seed:           11,
	}, testLogger(), mclock)

	a := &fakeSender{}
	b := &fakeSender{}
	anaSeat, err := room.Join("Ana", a)
	require.NoError(t, err)
	_, err = room.Join("Bruno", b)
	require.NoError(t, err)

	require.NoError(t, room.HandleCommand(anaSeat, CommandData{Action: "envido"}))

	// Bruno never answers; the clock does it for him
	w := mclock.Advance(time.Second)
	w.MustWait(context.Background())

	scoreA, scoreB := room.match.Scores()
	assert.Equal(t, 1, scoreA, "an unanswered envido is declined")
	assert.Equal(t, 0, scoreB)
}

func TestDisconnectedTurnSeatConcedes(t *testing.T) {
	room := NewRoom("TEST05", RoomConfig{Name: "drop", Players: 2, TargetScore: 30, Seed: 13}, testLogger(), quartz.NewReal())

	a := &fakeSender{}
	b := &fakeSender{}
	anaSeat, err := room.Join("Ana", a)
	require.NoError(t, err)
	_, err = room.Join("Bruno", b)
	require.NoError(t, err)

	// Ana holds the turn and drops: her team forfeits the hand
	room.Leave(anaSeat)
	_, scoreB := room.match.Scores()
	assert.GreaterOrEqual(t, scoreB, 1)

	// Bruno is prompted to open the next hand
	assert.NotEmpty(t, b.byType(MessageTypeActionRequired))
}
