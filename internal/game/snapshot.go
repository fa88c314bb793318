package game

// Snapshot is a point-in-time view of a match, shaped for serialization.
// A full snapshot includes every seat's cards; transports call RedactFor
// before sending one to a player.
type Snapshot struct {
	MatchID     string         `json:"match_id"`
	State       string         `json:"state"`
	TargetScore int            `json:"target_score"`
	FlorEnabled bool           `json:"flor_enabled"`
	ScoreA      int            `json:"score_a"`
	ScoreB      int            `json:"score_b"`
	Seats       []SeatSnapshot `json:"seats"`
	Hand        *HandSnapshot  `json:"hand,omitempty"`
	Winner      string         `json:"winner,omitempty"`
}

// SeatSnapshot is one seat's public and private state
type SeatSnapshot struct {
	Index     int      `json:"index"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Cards     []string `json:"cards,omitempty"`
	CardCount int      `json:"card_count"`
}

// HandSnapshot is the in-progress hand
type HandSnapshot struct {
	Number     int                 `json:"number"`
	Mano       int                 `json:"mano"`
	Turn       int                 `json:"turn"`
	Phase      string              `json:"phase"`
	Round      int                 `json:"round"`
	Rounds     []RoundSnapshot     `json:"rounds"`
	Bid        *BidSnapshot        `json:"bid,omitempty"`
	TrucoLevel int                 `json:"truco_level"`
	Stake      int                 `json:"stake"`
	Result     *HandResultSnapshot `json:"result,omitempty"`
}

// RoundSnapshot is one trick round, resolved or in progress
type RoundSnapshot struct {
	Plays  []PlaySnapshot `json:"plays"`
	Winner int            `json:"winner"` // seat index, -1 until decided
	Parda  bool           `json:"parda"`
	Done   bool           `json:"done"`
}

// PlaySnapshot is one card on the table
type PlaySnapshot struct {
	Seat int    `json:"seat"`
	Card string `json:"card"`
}

// BidSnapshot is the active, unresolved bid
type BidSnapshot struct {
	Family        string   `json:"family"`
	Chain         []string `json:"chain"`
	Caller        int      `json:"caller"`
	Responder     int      `json:"responder"`
	DeclinedStake int      `json:"declined_stake"`
	AcceptedStake string   `json:"accepted_stake"`
}

// HandResultSnapshot is the outcome of a finished hand
type HandResultSnapshot struct {
	WinnerTeam string `json:"winner_team"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

func (m *Match) snapshot() *Snapshot {
	snap := &Snapshot{
		MatchID:     m.id.String(),
		State:       m.state.String(),
		TargetScore: m.cfg.TargetScore,
		FlorEnabled: m.cfg.FlorEnabled,
		ScoreA:      m.scores[TeamA],
		ScoreB:      m.scores[TeamB],
	}
	if m.state == StateFinished {
		snap.Winner = m.winner.String()
	}

	for _, s := range m.seats {
		ss := SeatSnapshot{Index: s.Index, ID: s.ID, Name: s.Name, Team: s.Team.String()}
		if m.hand != nil {
			for _, c := range m.hand.cards[s.Index] {
				ss.Cards = append(ss.Cards, c.Code())
			}
			ss.CardCount = len(m.hand.cards[s.Index])
		}
		snap.Seats = append(snap.Seats, ss)
	}

	if m.hand != nil {
		snap.Hand = m.hand.snapshot()
	}
	return snap
}

func (h *Hand) snapshot() *HandSnapshot {
	hs := &HandSnapshot{
		Number:     h.number,
		Mano:       h.mano,
		Turn:       h.turn,
		Phase:      h.phase.String(),
		Round:      h.round,
		TrucoLevel: h.trucoLevel,
		Stake:      h.stake,
	}

	for i := 0; i < h.round && i < 3; i++ {
		r := h.rounds[i]
		rs := RoundSnapshot{Winner: -1, Parda: r.Parda, Done: r.Done}
		for _, p := range r.Plays {
			rs.Plays = append(rs.Plays, PlaySnapshot{Seat: p.Seat.Index, Card: p.Card.Code()})
		}
		if r.Done && r.Winner != nil {
			rs.Winner = r.Winner.Index
		}
		hs.Rounds = append(hs.Rounds, rs)
	}

	if h.bid != nil {
		bs := &BidSnapshot{
			Family:        h.bid.Family.String(),
			Caller:        h.bid.Caller.Index,
			Responder:     h.bid.Responder.Index,
			DeclinedStake: h.bid.DeclinedStake(),
			AcceptedStake: h.bid.AcceptedStake().String(),
		}
		for _, k := range h.bid.Chain {
			bs.Chain = append(bs.Chain, k.String())
		}
		hs.Bid = bs
	}

	if h.result != nil {
		hs.Result = &HandResultSnapshot{
			WinnerTeam: h.result.WinnerTeam.String(),
			Points:     h.result.Points,
			Reason:     h.result.Reason,
		}
	}
	return hs
}

// RedactFor returns a copy of the snapshot with every other seat's cards
// hidden. Card counts stay visible.
func (s *Snapshot) RedactFor(seatID string) *Snapshot {
	out := *s
	out.Seats = make([]SeatSnapshot, len(s.Seats))
	for i, seat := range s.Seats {
		out.Seats[i] = seat
		if seat.ID != seatID {
			out.Seats[i].Cards = nil
		}
	}
	return &out
}
