package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/deck"
	"github.com/lox/trucoforbots/internal/randutil"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := DefaultConfig()
	bad.Seats = bad.Seats[:1]
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Seats[1].Team = TeamA
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.TargetScore = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.FirstMano = 5
	assert.Error(t, bad.Validate())
}

func TestDealNewHand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	m, err := NewMatch(cfg, nil)
	require.NoError(t, err)

	snap, lines, err := m.DealNewHand()
	require.NoError(t, err)
	require.NotNil(t, snap.Hand)
	assert.NotEmpty(t, lines)
	assert.Equal(t, 1, snap.Hand.Number)
	assert.Equal(t, 0, snap.Hand.Mano)

	// Every seat holds three distinct cards
	seen := map[string]bool{}
	for _, seat := range snap.Seats {
		require.Len(t, seat.Cards, 3)
		for _, c := range seat.Cards {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}

	// A second deal mid-hand is rejected
	_, _, err = m.DealNewHand()
	assert.ErrorIs(t, err, ErrIllegalCommand)
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	deal := func() []string {
		cfg := DefaultConfig()
		cfg.Seed = 7
		m, err := NewMatch(cfg, nil)
		require.NoError(t, err)
		snap, _, err := m.DealNewHand()
		require.NoError(t, err)
		cards := []string{}
		for _, seat := range snap.Seats {
			cards = append(cards, seat.Cards...)
		}
		return cards
	}
	assert.Equal(t, deal(), deal())
}

func TestManoRotates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	m, err := NewMatch(cfg, nil)
	require.NoError(t, err)

	snap, _, err := m.DealNewHand()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Hand.Mano)

	manoID := snap.Seats[snap.Hand.Mano].ID
	_, _, err = m.ApplyCommand(manoID, Command{Action: Mazo})
	require.NoError(t, err)

	snap, _, err = m.DealNewHand()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Hand.Number)
	assert.Equal(t, 1, snap.Hand.Mano)
}

func TestMatchEndScoresAreNotCapped(t *testing.T) {
	m := newTestMatch(t, false, "1e 1b 4c", "4o 5o 6o")
	m.scores[TeamA] = 29

	mustAct(t, m, "ana", ChantTruco)
	mustAct(t, m, "bruno", Quiero)
	mustPlay(t, m, "ana", "1e")
	mustPlay(t, m, "bruno", "4o")
	mustPlay(t, m, "ana", "1b")
	snap := mustPlay(t, m, "bruno", "5o")

	// 29 + 2 lands past the target and stays there
	assert.Equal(t, 31, snap.ScoreA)
	assert.Equal(t, "A", snap.Winner)
	assert.Equal(t, StateFinished, m.State())

	_, _, err := m.ApplyCommand("ana", Command{Action: Mazo})
	assert.ErrorIs(t, err, ErrMatchFinished)
	_, _, err = m.DealNewHand()
	assert.ErrorIs(t, err, ErrMatchFinished)
}

func TestCurrentStateIsIdempotent(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")
	mustAct(t, m, "ana", ChantEnvido)

	first := m.CurrentState()
	second := m.CurrentState()
	assert.Equal(t, first, second)

	// Observing state does not disturb the pending bid
	require.NotNil(t, second.Hand.Bid)
	mustAct(t, m, "bruno", Quiero)
}

func TestSnapshotRedaction(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")

	snap := m.CurrentState().RedactFor("ana")
	assert.Len(t, snap.Seats[0].Cards, 3)
	assert.Nil(t, snap.Seats[1].Cards)
	assert.Equal(t, 3, snap.Seats[1].CardCount)

	// The original snapshot keeps both hands visible
	full := m.CurrentState()
	assert.Len(t, full.Seats[1].Cards, 3)
}

func TestLegalActionSets(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")

	assert.Equal(t,
		[]Action{PlayCard, ChantEnvido, ChantRealEnvido, ChantFaltaEnvido, ChantTruco, Mazo},
		m.LegalActions("ana"))
	assert.Empty(t, m.LegalActions("bruno"))

	mustAct(t, m, "ana", ChantEnvido)

	assert.Equal(t,
		[]Action{Quiero, NoQuiero, ChantEnvido, ChantRealEnvido, ChantFaltaEnvido, Mazo},
		m.LegalActions("bruno"))
	assert.Empty(t, m.LegalActions("ana"))
}

func TestUnknownSeatRejected(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")

	_, _, err := m.ApplyCommand("nobody", Command{Action: Mazo})
	assert.ErrorIs(t, err, ErrIllegalCommand)
	assert.Empty(t, m.LegalActions("nobody"))
}

type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func TestEventsArePublished(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")
	sub := &recordingSubscriber{}
	m.Events().Subscribe(sub)

	mustPlay(t, m, "ana", "4b")

	require.NotEmpty(t, sub.events)
	assert.Equal(t, EventTypeCardPlayed, sub.events[0].EventType())
}

func TestApplyCommandReturnsNarration(t *testing.T) {
	m := newTestMatch(t, false, "7e 2e 4b", "5o 2o 10b")

	_, lines, err := m.ApplyCommand("ana", Command{Action: ChantEnvido})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Ana chants Envido!", lines[0])

	_, lines, err = m.ApplyCommand("bruno", Command{Action: Quiero})
	require.NoError(t, err)
	assert.Contains(t, lines, "envido: team A 29 vs team B 27, team A wins 2 point(s)")
}

func TestRandomAgentsCompleteAMatch(t *testing.T) {
	cfg := Config{
		Seats: []SeatConfig{
			{ID: "a1", Name: "A1", Team: TeamA},
			{ID: "b1", Name: "B1", Team: TeamB},
		},
		TargetScore: 15,
		FlorEnabled: true,
		Seed:        99,
	}
	m, err := NewMatch(cfg, nil)
	require.NoError(t, err)

	agent := RandomAgent{}
	rng := randutil.New(99)

	for steps := 0; m.State() != StateFinished; steps++ {
		require.Less(t, steps, 10000, "match did not terminate")

		if m.State() == StateAwaitingDeal {
			_, _, err := m.DealNewHand()
			require.NoError(t, err)
			continue
		}

		acted := false
		for _, seat := range m.Seats() {
			legal := m.LegalActions(seat.ID)
			if len(legal) == 0 {
				continue
			}
			view := AgentView{
				Snapshot: m.CurrentState().RedactFor(seat.ID),
				SeatID:   seat.ID,
				Cards:    append([]deck.Card{}, m.hand.cards[seat.Index]...),
				Legal:    legal,
			}
			_, _, err := m.ApplyCommand(seat.ID, agent.Decide(view, rng))
			require.NoError(t, err)
			acted = true
			break
		}
		require.True(t, acted, "no seat could act")
	}

	winner, done := m.Winner()
	require.True(t, done)
	a, b := m.Scores()
	if winner == TeamA {
		assert.GreaterOrEqual(t, a, 15)
	} else {
		assert.GreaterOrEqual(t, b, 15)
	}
}
