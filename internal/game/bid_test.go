package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscalationTableIsValid(t *testing.T) {
	assert.NoError(t, validateEscalations())
}

func TestFlorDeclineExceedsPrefixStake(t *testing.T) {
	// Backing down from a contra flor concedes 4 even though the lone
	// flor it raised was only worth 3. The table validator must accept
	// this pricing rather than demand prefix consistency.
	flor, ok := findEscalation([]BidKind{BidFlor})
	require.True(t, ok)
	contra, ok := findEscalation([]BidKind{BidFlor, BidContraFlor})
	require.True(t, ok)

	assert.Equal(t, 3, flor.accepted.Points)
	assert.Equal(t, 4, contra.declined)
	assert.NoError(t, validateEscalations())
}

func TestEscalationStakes(t *testing.T) {
	tests := []struct {
		chain        []BidKind
		declined     int
		accepted     int
		acceptedFalt bool
	}{
		{[]BidKind{BidEnvido}, 1, 2, false},
		{[]BidKind{BidEnvido, BidEnvido}, 2, 4, false},
		{[]BidKind{BidEnvido, BidRealEnvido}, 2, 5, false},
		{[]BidKind{BidEnvido, BidEnvido, BidRealEnvido}, 4, 7, false},
		{[]BidKind{BidRealEnvido}, 1, 3, false},
		{[]BidKind{BidFaltaEnvido}, 1, 0, true},
		{[]BidKind{BidEnvido, BidEnvido, BidRealEnvido, BidFaltaEnvido}, 7, 0, true},
		{[]BidKind{BidFlor}, 3, 3, false},
		{[]BidKind{BidFlor, BidContraFlor}, 4, 6, false},
		{[]BidKind{BidTruco}, 1, 2, false},
		{[]BidKind{BidTruco, BidReTruco}, 2, 3, false},
		{[]BidKind{BidTruco, BidReTruco, BidValeCuatro}, 3, 4, false},
	}

	for _, tt := range tests {
		e, ok := findEscalation(tt.chain)
		require.True(t, ok, "chain %v missing", tt.chain)
		assert.Equal(t, tt.declined, e.declined, "declined stake of %v", tt.chain)
		assert.Equal(t, tt.acceptedFalt, e.accepted.Falta, "falta flag of %v", tt.chain)
		if !tt.acceptedFalt {
			assert.Equal(t, tt.accepted, e.accepted.Points, "accepted stake of %v", tt.chain)
		}
	}
}

func TestBidRaiseFlipsRoles(t *testing.T) {
	caller := &Seat{Index: 0, Team: TeamA}
	responder := &Seat{Index: 1, Team: TeamB}

	bid, err := newBid([]BidKind{BidEnvido}, caller, responder, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, bid.AcceptedStake().Points)

	require.NoError(t, bid.raise(BidRealEnvido))
	assert.Equal(t, responder, bid.Caller)
	assert.Equal(t, caller, bid.Responder)
	assert.Equal(t, 2, bid.DeclinedStake())
	assert.Equal(t, 5, bid.AcceptedStake().Points)
}

func TestBidRaiseOutsideTableRejected(t *testing.T) {
	bid, err := newBid([]BidKind{BidEnvido, BidRealEnvido}, &Seat{}, &Seat{Index: 1}, 0)
	require.NoError(t, err)

	// Real envido cannot be answered with a plain envido
	err = bid.raise(BidEnvido)
	assert.ErrorIs(t, err, ErrIllegalCommand)
	assert.Equal(t, []BidKind{BidEnvido, BidRealEnvido}, bid.Chain)
}

func TestNewBidUnknownChain(t *testing.T) {
	_, err := newBid([]BidKind{BidRealEnvido, BidEnvido}, &Seat{}, &Seat{Index: 1}, 0)
	assert.ErrorIs(t, err, ErrIllegalCommand)
}

func TestTrucoLadder(t *testing.T) {
	kind, ok := nextTrucoKind(0)
	require.True(t, ok)
	assert.Equal(t, BidTruco, kind)

	kind, ok = nextTrucoKind(1)
	require.True(t, ok)
	assert.Equal(t, BidReTruco, kind)

	kind, ok = nextTrucoKind(2)
	require.True(t, ok)
	assert.Equal(t, BidValeCuatro, kind)

	_, ok = nextTrucoKind(3)
	assert.False(t, ok)

	// Re-opening the ladder mid-hand reconstructs the accepted prefix
	assert.Equal(t, []BidKind{BidTruco}, trucoChainForLevel(1))
	assert.Equal(t, []BidKind{BidTruco, BidReTruco}, trucoChainForLevel(2))
	assert.Empty(t, trucoChainForLevel(0))
}
