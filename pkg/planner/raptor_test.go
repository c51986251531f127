package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterLongestDuration(t *testing.T) {
	network := loopFixture().network(t, "O")

	label, err := NewRouter(network).Plan(t.Context(), network.ChallengeRequest(), NewLongestDuration())
	require.NoError(t, err)
	require.NotNil(t, label)

	assert.Equal(t, 200, label.RideMinutes)
	assert.Equal(t, 650, label.Arrival)
	assert.Equal(t, 2, label.Transfers())

	legs := label.Legs()
	require.Len(t, legs, 3)
	assert.Equal(t, "O", legs[0].FromCode)
	assert.Equal(t, "O", legs[len(legs)-1].ToCode)
	assert.Equal(t, []string{"L1", "L2", "L3"}, []string{legs[0].LineID, legs[1].LineID, legs[2].LineID})

	for i := 1; i < len(legs); i++ {
		assert.Equal(t, legs[i-1].ToCode, legs[i].FromCode)
		assert.GreaterOrEqual(t, legs[i].Depart-legs[i-1].Arrive, 5)
	}
}

func TestRouterRespectsMinimumElapsed(t *testing.T) {
	f := newFixture(
		station("O", 33.590, 130.420),
		station("A", 33.620, 130.420),
		station("B", 33.620, 130.460),
	)
	f.trip("L1", "out", "t1", []string{"O", "A", "B"}, []int{430, 440, 450})
	f.trip("L2", "in", "t2", []string{"B", "O"}, []int{460, 480})
	network := f.network(t, "O")

	label, err := NewRouter(network).Plan(t.Context(), network.ChallengeRequest(), NewLongestDuration())
	require.NoError(t, err)
	assert.Nil(t, label)

	request := network.ChallengeRequest()
	request.MinElapsedMinutes = 30
	label, err = NewRouter(network).Plan(t.Context(), request, NewLongestDuration())
	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, 480, label.Arrival)
}

func TestRouterMostStops(t *testing.T) {
	network := ringFixture().network(t, "O")

	label, err := NewRouter(network).Plan(t.Context(), network.ChallengeRequest(), NewMostStops())
	require.NoError(t, err)
	require.NotNil(t, label)

	assert.Equal(t, 7, label.UniqueStops())
	assert.Equal(t, "O", label.Stop)
}

func TestRouterCancelled(t *testing.T) {
	network := loopFixture().network(t, "O")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	label, err := NewRouter(network).Plan(ctx, network.ChallengeRequest(), NewLongestDuration())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, label)
}

func TestRouterPointToPoint(t *testing.T) {
	network := loopFixture().network(t, "O")

	label, err := NewRouter(network).Plan(t.Context(), Request{
		Origins:      []string{"A"},
		Destinations: []string{"D"},
		StartMinutes: 450,
	}, &pointToPoint{maxRounds: 4, minTransferMinutes: 5})
	require.NoError(t, err)
	require.NotNil(t, label)

	assert.Equal(t, 580, label.Arrival)
	assert.Equal(t, "D", label.Stop)
	assert.Equal(t, 2, label.LegCount())
}
