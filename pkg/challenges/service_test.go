package challenges

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/loader"
	"github.com/reroute-fukuoka/reroute/pkg/planner"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSourceDown = errors.New("source down")

type panickingStrategy struct {
	planner.Strategy
}

func (panickingStrategy) Score(label *planner.Label) float64 {
	panic("score exploded")
}

type countingRealtime struct {
	fetches int
}

func (c *countingRealtime) Name() string {
	return "counting"
}

func (c *countingRealtime) Fetch(ctx context.Context, queries []realtime.TripQuery) ([]realtime.Patch, error) {
	c.fetches++
	return nil, nil
}

func TestServicePlans(t *testing.T) {
	assert := assert.New(t)

	service := NewService(newFakeSource(), DefaultOptions())

	plans, err := service.Plans(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	plan, err := service.Plan(t.Context(), "longest-duration")
	require.NoError(t, err)
	assert.Equal("24 Hour Long Ride", plan.Title)
	assert.Equal("raptor", plan.Method)
	assert.Equal("Stop O", plan.StartStop)
	assert.Equal("07:00", plan.StartTime)
	assert.Equal(200, plan.TotalRideMinutes)
	assert.Equal(2, plan.Transfers)
	assert.Len(plan.Legs, 3)
	assert.Equal([]string{"Northeast", "Southeast"}, plan.Wards)
	assert.Empty(plan.RestStops)
	assert.Equal("Stop O", plan.Legs[2].ToStop)

	assert.Equal("longest-duration", plans[0].ID)
	for _, p := range plans {
		assert.NotEqual("city-loop", p.ID)
	}

	_, err = service.Plan(t.Context(), "city-loop")
	assert.ErrorIs(err, ErrChallengeNotFound)

	_, err = service.Plan(t.Context(), "fastest-lap")
	assert.ErrorIs(err, ErrChallengeNotFound)
}

func TestServiceCachesUntilFingerprintChanges(t *testing.T) {
	source := newFakeSource()
	service := NewService(source, Options{Challenges: []planner.Challenge{planner.ChallengeLongestDuration}})

	first, err := service.Plans(t.Context())
	require.NoError(t, err)
	_, err = service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, source.loads)

	source.fingerprint = "v2"
	second, err := service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, source.loads)
	assert.NotSame(t, first[0], second[0])
	assert.Equal(t, first[0].TotalRideMinutes, second[0].TotalRideMinutes)
}

func TestServiceKeepsPreviousPlansOnLoadFailure(t *testing.T) {
	source := newFakeSource()
	service := NewService(source, Options{Challenges: []planner.Challenge{planner.ChallengeLongestDuration}})

	first, err := service.Plans(t.Context())
	require.NoError(t, err)

	source.fingerprint = "v2"
	source.err = errSourceDown

	second, err := service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, source.loads)
	assert.Same(t, first[0], second[0])
}

func TestServiceLoadFailureWithoutCache(t *testing.T) {
	source := newFakeSource()
	source.err = errSourceDown

	_, err := NewService(source, DefaultOptions()).Plans(t.Context())
	assert.ErrorIs(t, err, errSourceDown)
}

func TestServiceCancelledContext(t *testing.T) {
	source := newFakeSource()
	service := NewService(source, Options{Challenges: []planner.Challenge{planner.ChallengeLongestDuration}})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := service.Plans(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	plans, err := service.Plans(t.Context())
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestServiceIsolatesPanics(t *testing.T) {
	service := NewService(newFakeSource(), Options{
		Challenges: []planner.Challenge{planner.ChallengeLongestDuration, planner.ChallengeLongestDistance},
		Strategies: map[planner.Challenge]planner.Strategy{
			planner.ChallengeLongestDistance: panickingStrategy{Strategy: planner.NewLongestDistance()},
		},
	})

	plans, err := service.Plans(t.Context())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "longest-duration", plans[0].ID)

	_, err = service.Plan(t.Context(), "longest-distance")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestServiceNoPlans(t *testing.T) {
	service := NewService(newFakeSource(), Options{Challenges: []planner.Challenge{planner.ChallengeCityLoop}})

	_, err := service.Plans(t.Context())
	assert.ErrorIs(t, err, ErrNoPlans)
}

func TestServiceRealtimeExpiry(t *testing.T) {
	source := newFakeSource()
	feed := &countingRealtime{}

	options := DefaultOptions()
	options.Challenges = []planner.Challenge{planner.ChallengeLongestDuration}
	options.Realtime = realtime.NewManager(feed, 30*time.Second)

	service := NewService(source, options)
	now := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	_, err := service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, feed.fetches)

	now = now.Add(10 * time.Second)
	_, err = service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, feed.fetches)

	now = now.Add(25 * time.Second)
	plans, err := service.Plans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, feed.fetches)
	assert.Equal(t, 1, source.loads)
	assert.Equal(t, 200, plans[0].TotalRideMinutes)
}

// quadrantDataset has one stop in each quadrant around O, all inside a
// square city boundary, joined clockwise by single hop trips. X sits in the
// boundary band but no line serves it.
func quadrantDataset() *loader.Dataset {
	list := []transit.Station{
		station("O", 33.590, 130.420),
		station("NE", 33.625, 130.460),
		station("SE", 33.555, 130.460),
		station("SW", 33.555, 130.380),
		station("NW", 33.625, 130.380),
		station("X", 33.630, 130.420),
	}

	dataset := &loader.Dataset{
		Stations:      map[string]transit.Station{},
		StationList:   list,
		EligibleLines: []string{"Q1", "Q2", "Q3", "Q4", "Q5"},
		Origins:       []string{"O"},
		CentreLat:     33.590,
		CentreLon:     130.420,
		Boundary: []orb.Ring{
			{{130.35, 33.53}, {130.49, 33.53}, {130.49, 33.65}, {130.35, 33.65}, {130.35, 33.53}},
		},
	}
	for _, s := range list {
		dataset.Stations[s.Code] = s
	}

	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "Q1", "cw", "q1", []string{"O", "NE"}, []int{430, 450})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "Q2", "cw", "q2", []string{"NE", "SE"}, []int{460, 480})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "Q3", "cw", "q3", []string{"SE", "SW"}, []int{490, 510})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "Q4", "cw", "q4", []string{"SW", "NW"}, []int{520, 540})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "Q5", "cw", "q5", []string{"NW", "O"}, []int{550, 570})...)

	return dataset
}

func TestNetworkBoundaryUsesServedStopsOnly(t *testing.T) {
	source := newFakeSource()
	source.dataset = quadrantDataset()

	service := NewService(source, Options{Challenges: []planner.Challenge{planner.ChallengeCityLoop}})

	network, err := service.Network(t.Context(), source.dataset)
	require.NoError(t, err)
	assert.Equal(t, []string{"O", "NE", "SE", "SW", "NW", "O"}, network.Boundary.Sequence)
	assert.False(t, network.Boundary.Contains("X"))

	plan, err := service.Plan(t.Context(), "city-loop")
	require.NoError(t, err)
	assert.Equal(t, "stitched", plan.Method)
	assert.Equal(t, 5, len(plan.Legs))
	assert.Equal(t, []string{"Northeast", "Southeast", "Southwest", "Northwest"}, plan.Wards)
}
