package game

import (
	"fmt"

	"github.com/lox/trucoforbots/internal/deck"
)

// HandPhase is the explicit state of a hand. Card play and bidding are
// mutually exclusive: while a chant awaits its answer no card may hit
// the table.
type HandPhase int

const (
	PhaseAwaitingCard HandPhase = iota
	PhaseAwaitingBidResponse
	PhaseHandOver
)

// String returns the string representation of a hand phase
func (p HandPhase) String() string {
	switch p {
	case PhaseAwaitingCard:
		return "awaiting_card"
	case PhaseAwaitingBidResponse:
		return "awaiting_bid_response"
	case PhaseHandOver:
		return "hand_over"
	default:
		return "?"
	}
}

// RoundState holds the cards played in one round and its outcome
type RoundState struct {
	Plays  []PlayedCard
	Winner *Seat
	Parda  bool
	Done   bool
}

// HandResult is the outcome of a resolved hand
type HandResult struct {
	WinnerTeam Team
	Points     int
	Reason     string // "rounds", "no_quiero", "mazo"
}

// Hand is one deal: three cards per seat, up to three trick rounds,
// interleaved with bid resolution.
type Hand struct {
	m      *Match
	number int
	mano   int
	turn   int
	phase  HandPhase
	round  int // 1..3

	cards  [][]deck.Card // mobile hands, cards removed as played
	dealt  [][]deck.Card // the full deal, kept for envido/flor showdowns
	rounds [3]RoundState

	bid            *BidState
	trucoLevel     int // accepted steps on the truco ladder (0..3)
	trucoWord      int // team allowed to escalate next; -1 before any truco
	stake          int // points the hand is currently worth
	envidoResolved bool
	florChanted    bool
	florSeats      []int
	cardsPlayed    int

	result *HandResult
}

func newHand(m *Match, number, mano int, deal [][]deck.Card) *Hand {
	h := &Hand{
		m:         m,
		number:    number,
		mano:      mano,
		turn:      mano,
		phase:     PhaseAwaitingCard,
		round:     1,
		dealt:     deal,
		trucoWord: -1,
		stake:     1,
	}

	h.cards = make([][]deck.Card, len(deal))
	for i, cards := range deal {
		h.cards[i] = append([]deck.Card{}, cards...)
	}

	// Flor detection runs once, right after dealing, because flor
	// presence gates whether envido can be chanted at all.
	for i, cards := range deal {
		if HasFlor(cards) {
			h.florSeats = append(h.florSeats, i)
		}
	}

	return h
}

// Result returns the hand outcome, or nil while play continues
func (h *Hand) Result() *HandResult {
	return h.result
}

func (h *Hand) seat(idx int) *Seat {
	return h.m.seats[idx]
}

func (h *Hand) hasFlorSeat(idx int) bool {
	for _, s := range h.florSeats {
		if s == idx {
			return true
		}
	}
	return false
}

// nextOpposingSeat returns the first seat after from, in table order,
// that belongs to the other team.
func (h *Hand) nextOpposingSeat(from int) *Seat {
	n := len(h.m.seats)
	for i := 1; i < n; i++ {
		s := h.m.seats[(from+i)%n]
		if s.Team != h.m.seats[from].Team {
			return s
		}
	}
	return nil
}

// envidoAvailable reports whether the envido family can still open:
// round 1, before any card of the hand has been played, not yet
// resolved, and not pre-empted by a flor when flor is enabled.
func (h *Hand) envidoAvailable() bool {
	if h.envidoResolved || h.cardsPlayed > 0 || h.round != 1 {
		return false
	}
	if h.m.cfg.FlorEnabled && len(h.florSeats) > 0 {
		return false
	}
	return true
}

func (h *Hand) florAvailable(seat int) bool {
	return h.m.cfg.FlorEnabled && !h.florChanted && h.cardsPlayed == 0 && h.hasFlorSeat(seat)
}

func (h *Hand) trucoAllowed(team Team) bool {
	return h.trucoWord == -1 || Team(h.trucoWord) == team
}

// legalActions returns the ordered set of commands currently acceptable
// from the seat.
func (h *Hand) legalActions(seat int) []Action {
	if h.phase == PhaseHandOver {
		return nil
	}

	if h.phase == PhaseAwaitingBidResponse {
		if seat != h.bid.Responder.Index {
			return nil
		}
		actions := []Action{Quiero, NoQuiero}
		for _, kind := range h.bid.Raises() {
			if kind.Family() == FamilyFlor && !h.hasFlorSeat(seat) {
				continue
			}
			actions = append(actions, kind.Action())
		}
		return append(actions, Mazo)
	}

	if seat != h.turn {
		return nil
	}

	actions := []Action{PlayCard}
	if h.envidoAvailable() {
		actions = append(actions, ChantEnvido, ChantRealEnvido, ChantFaltaEnvido)
	}
	if h.florAvailable(seat) {
		actions = append(actions, ChantFlor)
	}
	if kind, ok := nextTrucoKind(h.trucoLevel); ok && h.trucoAllowed(h.seat(seat).Team) {
		actions = append(actions, kind.Action())
	}
	return append(actions, Mazo)
}

// playCard puts a card from the seat's hand onto the table.
func (h *Hand) playCard(seat int, card deck.Card) error {
	switch h.phase {
	case PhaseAwaitingBidResponse:
		return fmt.Errorf("%w: cannot play a card while a chant is unresolved", ErrIllegalCommand)
	case PhaseHandOver:
		return fmt.Errorf("%w: hand is over", ErrIllegalCommand)
	}
	if seat != h.turn {
		return ErrNotYourTurn
	}

	idx := -1
	for i, c := range h.cards[seat] {
		if c == card {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCard, card.Code())
	}

	h.cards[seat] = append(h.cards[seat][:idx], h.cards[seat][idx+1:]...)
	h.cardsPlayed++

	r := &h.rounds[h.round-1]
	r.Plays = append(r.Plays, PlayedCard{Seat: h.seat(seat), Card: card})
	h.m.emit(CardPlayedEvent{Seat: h.seat(seat), Card: card, Round: h.round, timestamp: h.m.now()})

	if len(r.Plays) == len(h.m.seats) {
		h.resolveRound()
	} else {
		h.turn = (h.turn + 1) % len(h.m.seats)
	}
	return nil
}

func (h *Hand) resolveRound() {
	r := &h.rounds[h.round-1]
	res := ResolveTrick(r.Plays)
	r.Done = true
	r.Winner = res.Winner
	r.Parda = res.Parda
	h.m.emit(TrickResolvedEvent{Round: h.round, Winner: res.Winner, Parda: res.Parda, timestamp: h.m.now()})

	// A parda counts as a round win for both sides. Winning any round
	// next to a parda therefore closes the hand: parda primera, gana
	// la segunda.
	wins := [2]int{}
	for _, round := range h.rounds {
		if !round.Done {
			continue
		}
		if round.Parda {
			wins[TeamA]++
			wins[TeamB]++
		} else {
			wins[round.Winner.Team]++
		}
	}

	switch {
	case wins[TeamA] >= 2 && wins[TeamA] > wins[TeamB]:
		h.finish(TeamA, h.stake, "rounds")
	case wins[TeamB] >= 2 && wins[TeamB] > wins[TeamA]:
		h.finish(TeamB, h.stake, "rounds")
	case h.round == 3:
		// All rounds played: most wins takes it, the mano seat's team
		// on equality (including all pardas).
		winner := h.seat(h.mano).Team
		if wins[TeamA] > wins[TeamB] {
			winner = TeamA
		} else if wins[TeamB] > wins[TeamA] {
			winner = TeamB
		}
		h.finish(winner, h.stake, "rounds")
	default:
		h.round++
		if res.Parda {
			// After a parda the lead returns to the mano seat.
			h.turn = h.mano
		} else {
			h.turn = res.Winner.Index
		}
	}
}

func (h *Hand) finish(team Team, points int, reason string) {
	h.result = &HandResult{WinnerTeam: team, Points: points, Reason: reason}
	h.phase = PhaseHandOver
	h.bid = nil
	h.m.emit(HandEndEvent{HandNumber: h.number, WinnerTeam: team, Points: points, Reason: reason, timestamp: h.m.now()})
	h.m.award(team, points, reason)
	if h.m.state != StateFinished {
		h.m.state = StateAwaitingDeal
	}
}

// chant opens a bid or, while one is active, raises it.
func (h *Hand) chant(seat int, kind BidKind) error {
	switch h.phase {
	case PhaseHandOver:
		return fmt.Errorf("%w: hand is over", ErrIllegalCommand)
	case PhaseAwaitingBidResponse:
		return h.raiseBid(seat, kind)
	}

	if seat != h.turn {
		return ErrNotYourTurn
	}

	switch kind.Family() {
	case FamilyEnvido:
		return h.openEnvido(seat, kind)
	case FamilyFlor:
		return h.openFlor(seat, kind)
	default:
		return h.openTruco(seat, kind)
	}
}

func (h *Hand) raiseBid(seat int, kind BidKind) error {
	if seat != h.bid.Responder.Index {
		return fmt.Errorf("%w: only the responder may raise", ErrIllegalCommand)
	}
	if kind.Family() == FamilyFlor && !h.hasFlorSeat(seat) {
		return fmt.Errorf("%w: cannot raise a flor without one", ErrIllegalCommand)
	}
	if err := h.bid.raise(kind); err != nil {
		return err
	}
	h.m.emit(ChantEvent{Seat: h.seat(seat), Kind: kind, Chain: h.bid.Chain, timestamp: h.m.now()})
	return nil
}

func (h *Hand) openEnvido(seat int, kind BidKind) error {
	if !h.envidoAvailable() {
		return fmt.Errorf("%w: envido is no longer available", ErrIllegalCommand)
	}

	bid, err := newBid([]BidKind{kind}, h.seat(seat), h.nextOpposingSeat(seat), h.turn)
	if err != nil {
		return err
	}
	h.bid = bid
	h.phase = PhaseAwaitingBidResponse
	h.m.emit(ChantEvent{Seat: h.seat(seat), Kind: kind, Chain: bid.Chain, timestamp: h.m.now()})
	return nil
}

func (h *Hand) openFlor(seat int, kind BidKind) error {
	if kind != BidFlor {
		return fmt.Errorf("%w: %s can only answer a flor", ErrIllegalCommand, kind)
	}
	if !h.florAvailable(seat) {
		return fmt.Errorf("%w: flor is not available", ErrIllegalCommand)
	}

	// Flor kills any remaining envido rights for the hand.
	h.florChanted = true
	h.envidoResolved = true
	h.m.emit(ChantEvent{Seat: h.seat(seat), Kind: kind, Chain: []BidKind{kind}, timestamp: h.m.now()})

	team := h.seat(seat).Team
	var responder *Seat
	for i := 1; i < len(h.m.seats); i++ {
		s := h.m.seats[(seat+i)%len(h.m.seats)]
		if s.Team != team && h.hasFlorSeat(s.Index) {
			responder = s
			break
		}
	}

	if responder == nil {
		// No opposing flor: the chant collects its three points and
		// play continues with no bid pending.
		h.m.emit(FlorResultEvent{WinnerTeam: team, Points: 3, Uncontested: true, timestamp: h.m.now()})
		h.m.award(team, 3, "flor")
		return nil
	}

	bid, err := newBid([]BidKind{BidFlor}, h.seat(seat), responder, h.turn)
	if err != nil {
		return err
	}
	h.bid = bid
	h.phase = PhaseAwaitingBidResponse
	return nil
}

func (h *Hand) openTruco(seat int, kind BidKind) error {
	expected, ok := nextTrucoKind(h.trucoLevel)
	if !ok {
		return fmt.Errorf("%w: vale cuatro has already been accepted", ErrIllegalCommand)
	}
	if kind != expected {
		return fmt.Errorf("%w: next truco chant is %s", ErrIllegalCommand, expected)
	}
	if !h.trucoAllowed(h.seat(seat).Team) {
		return fmt.Errorf("%w: the other team holds the truco word", ErrIllegalCommand)
	}

	chain := append(trucoChainForLevel(h.trucoLevel), kind)
	bid, err := newBid(chain, h.seat(seat), h.nextOpposingSeat(seat), h.turn)
	if err != nil {
		return err
	}
	h.bid = bid
	h.phase = PhaseAwaitingBidResponse
	h.m.emit(ChantEvent{Seat: h.seat(seat), Kind: kind, Chain: chain, timestamp: h.m.now()})
	return nil
}

// respond resolves the active bid with quiero or no quiero.
func (h *Hand) respond(seat int, accept bool) error {
	if h.phase != PhaseAwaitingBidResponse {
		return fmt.Errorf("%w: no chant awaiting a response", ErrIllegalCommand)
	}
	if seat != h.bid.Responder.Index {
		return fmt.Errorf("%w: not the designated responder", ErrIllegalCommand)
	}

	bid := h.bid
	h.m.emit(ChantResponseEvent{Seat: h.seat(seat), Kind: bid.Last(), Accepted: accept, timestamp: h.m.now()})

	switch bid.Family {
	case FamilyEnvido:
		h.envidoResolved = true
		if accept {
			h.resolveEnvidoShowdown(bid)
		} else {
			h.m.award(bid.Caller.Team, bid.DeclinedStake(), "envido declined")
		}
		h.closeBid(bid)

	case FamilyFlor:
		if accept {
			h.resolveFlorShowdown(bid)
		} else {
			h.m.award(bid.Caller.Team, bid.DeclinedStake(), "flor declined")
		}
		h.closeBid(bid)

	case FamilyTruco:
		if accept {
			h.stake = bid.AcceptedStake().Points
			h.trucoLevel = len(bid.Chain)
			h.trucoWord = int(h.seat(seat).Team)
			h.closeBid(bid)
		} else {
			// Declining truco forfeits the hand at the previous stake.
			h.finish(bid.Caller.Team, bid.DeclinedStake(), "no_quiero")
		}
	}
	return nil
}

// closeBid destroys the resolved bid and hands the turn back to the
// seat that was about to play when the chant interrupted.
func (h *Hand) closeBid(bid *BidState) {
	h.bid = nil
	if h.phase != PhaseHandOver {
		h.phase = PhaseAwaitingCard
		h.turn = bid.prevTurn
	}
}

func (h *Hand) bestEnvido(team Team) int {
	best := -1
	for _, s := range h.m.seats {
		if s.Team != team {
			continue
		}
		if pts := EnvidoPoints(h.dealt[s.Index]); pts > best {
			best = pts
		}
	}
	return best
}

func (h *Hand) bestFlor(team Team) int {
	best := -1
	for _, idx := range h.florSeats {
		if h.seat(idx).Team != team {
			continue
		}
		if pts := FlorPoints(h.dealt[idx]); pts > best {
			best = pts
		}
	}
	return best
}

// faltaPoints is the accepted stake of a falta chant: exactly what the
// losing team still needs to reach the target.
func (h *Hand) faltaPoints(loser Team) int {
	pts := h.m.cfg.TargetScore - h.m.scores[loser]
	if pts < 1 {
		pts = 1
	}
	return pts
}

func (h *Hand) resolveEnvidoShowdown(bid *BidState) {
	bestA := h.bestEnvido(TeamA)
	bestB := h.bestEnvido(TeamB)

	winner := h.seat(h.mano).Team // ties favour the mano seat's team
	if bestA > bestB {
		winner = TeamA
	} else if bestB > bestA {
		winner = TeamB
	}

	stake := bid.AcceptedStake()
	points := stake.Points
	if stake.Falta {
		points = h.faltaPoints(winner.Opponent())
	}

	h.m.emit(EnvidoResultEvent{WinnerTeam: winner, BestA: bestA, BestB: bestB, Points: points, timestamp: h.m.now()})
	h.m.award(winner, points, "envido")
}

func (h *Hand) resolveFlorShowdown(bid *BidState) {
	bestA := h.bestFlor(TeamA)
	bestB := h.bestFlor(TeamB)

	winner := h.seat(h.mano).Team
	if bestA > bestB {
		winner = TeamA
	} else if bestB > bestA {
		winner = TeamB
	}

	stake := bid.AcceptedStake()
	points := stake.Points
	if stake.Falta {
		points = h.faltaPoints(winner.Opponent())
	}

	h.m.emit(FlorResultEvent{WinnerTeam: winner, BestA: bestA, BestB: bestB, Points: points, timestamp: h.m.now()})
	h.m.award(winner, points, "flor")
}

// quit is "me voy al mazo": the seat's team forfeits the hand at the
// live truco stake, the pending chant's accepted value if one is open.
func (h *Hand) quit(seat int) error {
	if h.phase == PhaseHandOver {
		return fmt.Errorf("%w: hand is over", ErrIllegalCommand)
	}
	if h.phase == PhaseAwaitingCard && seat != h.turn {
		return ErrNotYourTurn
	}
	if h.phase == PhaseAwaitingBidResponse && seat != h.bid.Responder.Index {
		return fmt.Errorf("%w: only the responder may go to the deck mid-chant", ErrIllegalCommand)
	}

	points := h.stake
	if h.bid != nil && h.bid.Family == FamilyTruco {
		points = h.bid.AcceptedStake().Points
	}

	// An unanswered envido or flor chant from the other side counts as
	// declined by the quitter.
	if h.bid != nil && h.bid.Family != FamilyTruco && h.bid.Responder.Index == seat {
		h.m.emit(ChantResponseEvent{Seat: h.seat(seat), Kind: h.bid.Last(), Accepted: false, timestamp: h.m.now()})
		h.m.award(h.bid.Caller.Team, h.bid.DeclinedStake(), h.bid.Family.String()+" declined")
	}

	h.finish(h.seat(seat).Team.Opponent(), points, "mazo")
	return nil
}
