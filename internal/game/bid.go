package game

import "fmt"

// BidFamily tags the three chant families. At most one family can have
// an active bid at a time.
type BidFamily int

const (
	FamilyEnvido BidFamily = iota
	FamilyFlor
	FamilyTruco
)

// String returns the string representation of a bid family
func (f BidFamily) String() string {
	switch f {
	case FamilyEnvido:
		return "envido"
	case FamilyFlor:
		return "flor"
	case FamilyTruco:
		return "truco"
	default:
		return "?"
	}
}

// BidKind is a single chant within a family's escalation ladder
type BidKind int

const (
	BidEnvido BidKind = iota
	BidRealEnvido
	BidFaltaEnvido
	BidFlor
	BidContraFlor
	BidContraFlorAlResto
	BidTruco
	BidReTruco
	BidValeCuatro
)

// Family returns the family a chant belongs to
func (k BidKind) Family() BidFamily {
	switch k {
	case BidEnvido, BidRealEnvido, BidFaltaEnvido:
		return FamilyEnvido
	case BidFlor, BidContraFlor, BidContraFlorAlResto:
		return FamilyFlor
	default:
		return FamilyTruco
	}
}

// String returns the spoken name of the chant
func (k BidKind) String() string {
	switch k {
	case BidEnvido:
		return "Envido"
	case BidRealEnvido:
		return "Real Envido"
	case BidFaltaEnvido:
		return "Falta Envido"
	case BidFlor:
		return "Flor"
	case BidContraFlor:
		return "Contra Flor"
	case BidContraFlorAlResto:
		return "Contra Flor al Resto"
	case BidTruco:
		return "Truco"
	case BidReTruco:
		return "ReTruco"
	case BidValeCuatro:
		return "Vale Cuatro"
	default:
		return "?"
	}
}

// Action returns the command action that voices this chant
func (k BidKind) Action() Action {
	switch k {
	case BidEnvido:
		return ChantEnvido
	case BidRealEnvido:
		return ChantRealEnvido
	case BidFaltaEnvido:
		return ChantFaltaEnvido
	case BidFlor:
		return ChantFlor
	case BidContraFlor:
		return ChantContraFlor
	case BidContraFlorAlResto:
		return ChantContraFlorAlResto
	case BidTruco:
		return ChantTruco
	case BidReTruco:
		return ChantReTruco
	default:
		return ChantValeCuatro
	}
}

// bidKindForAction maps a chant action back to its BidKind.
func bidKindForAction(a Action) (BidKind, bool) {
	switch a {
	case ChantEnvido:
		return BidEnvido, true
	case ChantRealEnvido:
		return BidRealEnvido, true
	case ChantFaltaEnvido:
		return BidFaltaEnvido, true
	case ChantFlor:
		return BidFlor, true
	case ChantContraFlor:
		return BidContraFlor, true
	case ChantContraFlorAlResto:
		return BidContraFlorAlResto, true
	case ChantTruco:
		return BidTruco, true
	case ChantReTruco:
		return BidReTruco, true
	case ChantValeCuatro:
		return BidValeCuatro, true
	default:
		return 0, false
	}
}

// Stake is the value of a resolved bid. Falta stakes are computed at
// resolution time as the points the losing team still needs to reach
// the target score.
type Stake struct {
	Points int
	Falta  bool
}

func (s Stake) String() string {
	if s.Falta {
		return "falta"
	}
	return fmt.Sprintf("%d", s.Points)
}

// escalation is one row of the finite transition table: a full chant
// history, its stakes, and the raises the responder may answer with.
type escalation struct {
	chain    []BidKind
	declined int
	accepted Stake
	raises   []BidKind
}

// escalations is the complete bid transition table. Outside the flor
// family the declined stake of every chain equals the accepted stake of
// the chain without its last raise (the points already "on the table"
// when the raise came); validateEscalations enforces this at startup.
// Flor chains price their own declines: backing down from a contra flor
// concedes four, one more than the lone flor was worth.
var escalations = []escalation{
	// Envido family
	{chain: []BidKind{BidEnvido}, declined: 1, accepted: Stake{Points: 2},
		raises: []BidKind{BidEnvido, BidRealEnvido, BidFaltaEnvido}},
	{chain: []BidKind{BidEnvido, BidEnvido}, declined: 2, accepted: Stake{Points: 4},
		raises: []BidKind{BidRealEnvido, BidFaltaEnvido}},
	{chain: []BidKind{BidEnvido, BidRealEnvido}, declined: 2, accepted: Stake{Points: 5},
		raises: []BidKind{BidFaltaEnvido}},
	{chain: []BidKind{BidEnvido, BidFaltaEnvido}, declined: 2, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidEnvido, BidEnvido, BidRealEnvido}, declined: 4, accepted: Stake{Points: 7},
		raises: []BidKind{BidFaltaEnvido}},
	{chain: []BidKind{BidEnvido, BidEnvido, BidFaltaEnvido}, declined: 4, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidEnvido, BidRealEnvido, BidFaltaEnvido}, declined: 5, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidEnvido, BidEnvido, BidRealEnvido, BidFaltaEnvido}, declined: 7, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidRealEnvido}, declined: 1, accepted: Stake{Points: 3},
		raises: []BidKind{BidFaltaEnvido}},
	{chain: []BidKind{BidRealEnvido, BidFaltaEnvido}, declined: 3, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidFaltaEnvido}, declined: 1, accepted: Stake{Falta: true}},

	// Flor family. A lone flor cannot be declined for less than its
	// three points: achicarse concedes them without a comparison.
	{chain: []BidKind{BidFlor}, declined: 3, accepted: Stake{Points: 3},
		raises: []BidKind{BidContraFlor, BidContraFlorAlResto}},
	{chain: []BidKind{BidFlor, BidContraFlor}, declined: 4, accepted: Stake{Points: 6},
		raises: []BidKind{BidContraFlorAlResto}},
	{chain: []BidKind{BidFlor, BidContraFlorAlResto}, declined: 3, accepted: Stake{Falta: true}},
	{chain: []BidKind{BidFlor, BidContraFlor, BidContraFlorAlResto}, declined: 6, accepted: Stake{Falta: true}},

	// Truco family
	{chain: []BidKind{BidTruco}, declined: 1, accepted: Stake{Points: 2},
		raises: []BidKind{BidReTruco}},
	{chain: []BidKind{BidTruco, BidReTruco}, declined: 2, accepted: Stake{Points: 3},
		raises: []BidKind{BidValeCuatro}},
	{chain: []BidKind{BidTruco, BidReTruco, BidValeCuatro}, declined: 3, accepted: Stake{Points: 4}},
}

func chainsEqual(a, b []BidKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func findEscalation(chain []BidKind) (*escalation, bool) {
	for i := range escalations {
		if chainsEqual(escalations[i].chain, chain) {
			return &escalations[i], true
		}
	}
	return nil, false
}

// validateEscalations checks the transition table is closed and
// internally consistent. Run once at startup; a broken table is a
// programming error, not a runtime condition.
func validateEscalations() error {
	for _, e := range escalations {
		if len(e.chain) == 0 {
			return fmt.Errorf("empty chain in escalation table")
		}
		family := e.chain[0].Family()
		for _, k := range e.chain {
			if k.Family() != family {
				return fmt.Errorf("chain %v mixes bid families", e.chain)
			}
		}
		for _, raise := range e.raises {
			extended := append(append([]BidKind{}, e.chain...), raise)
			next, ok := findEscalation(extended)
			if !ok {
				return fmt.Errorf("raise %s from %v leads outside the table", raise, e.chain)
			}
			// The raise puts the previous accepted stake on the line.
			// Flor declines are priced per chain, not per prefix.
			if family == FamilyFlor {
				continue
			}
			if !e.accepted.Falta && next.declined != e.accepted.Points {
				return fmt.Errorf("declined stake of %v is %d, want %d",
					next.chain, next.declined, e.accepted.Points)
			}
		}
	}
	return nil
}

func init() {
	if err := validateEscalations(); err != nil {
		panic(err)
	}
}

// BidState is an active, unresolved bid. It is destroyed (the hand's
// bid pointer reset) as soon as a quiero / no quiero resolves it.
type BidState struct {
	Family    BidFamily
	Chain     []BidKind
	Caller    *Seat
	Responder *Seat

	// prevTurn is the seat that held the card-play turn when the bid
	// opened; play resumes there once the bid resolves.
	prevTurn int
}

func newBid(chain []BidKind, caller, responder *Seat, prevTurn int) (*BidState, error) {
	if _, ok := findEscalation(chain); !ok {
		return nil, fmt.Errorf("%w: no such escalation %v", ErrIllegalCommand, chain)
	}
	return &BidState{
		Family:    chain[0].Family(),
		Chain:     chain,
		Caller:    caller,
		Responder: responder,
		prevTurn:  prevTurn,
	}, nil
}

func (b *BidState) esc() *escalation {
	e, ok := findEscalation(b.Chain)
	if !ok {
		// Unreachable: every mutation of Chain goes through the table.
		panic(fmt.Sprintf("bid chain %v missing from escalation table", b.Chain))
	}
	return e
}

// Last returns the most recent chant in the chain
func (b *BidState) Last() BidKind {
	return b.Chain[len(b.Chain)-1]
}

// DeclinedStake returns the points awarded to the caller on no quiero
func (b *BidState) DeclinedStake() int {
	return b.esc().declined
}

// AcceptedStake returns the stake at play on quiero
func (b *BidState) AcceptedStake() Stake {
	return b.esc().accepted
}

// Raises returns the chants the responder may escalate with
func (b *BidState) Raises() []BidKind {
	return b.esc().raises
}

// raise extends the chain with the responder's counter-chant and flips
// the caller/responder roles.
func (b *BidState) raise(kind BidKind) error {
	extended := append(append([]BidKind{}, b.Chain...), kind)
	if _, ok := findEscalation(extended); !ok {
		return fmt.Errorf("%w: cannot raise %v with %s", ErrIllegalCommand, b.Chain, kind)
	}
	b.Chain = extended
	b.Caller, b.Responder = b.Responder, b.Caller
	return nil
}

// trucoChainForLevel rebuilds the chant history prefix for a hand where
// level escalation steps have already been accepted, so a later ReTruco
// opens with the {Truco, ReTruco} stakes rather than a fresh chain.
func trucoChainForLevel(level int) []BidKind {
	ladder := []BidKind{BidTruco, BidReTruco, BidValeCuatro}
	if level < 0 {
		level = 0
	}
	if level > len(ladder) {
		level = len(ladder)
	}
	return append([]BidKind{}, ladder[:level]...)
}

// nextTrucoKind returns the next chant on the truco ladder, or false
// when Vale Cuatro has already been accepted.
func nextTrucoKind(level int) (BidKind, bool) {
	switch level {
	case 0:
		return BidTruco, true
	case 1:
		return BidReTruco, true
	case 2:
		return BidValeCuatro, true
	default:
		return 0, false
	}
}
