package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomLabels(seed int64, count int) []*Label {
	random := rand.New(rand.NewSource(seed))

	labels := make([]*Label, count)
	for i := range labels {
		labels[i] = &Label{
			Arrival:     500 + random.Intn(4)*10,
			RideMinutes: random.Intn(4) * 10,
			DistanceKm:  float64(random.Intn(3)),
			Score:       float64(random.Intn(3)),
			metrics: Metrics{
				UniqueLines:   random.Intn(3),
				UniqueStops:   random.Intn(4),
				Quadrants:     random.Intn(3),
				AvgRadius:     float64(random.Intn(3)),
				BoundaryRatio: float64(random.Intn(2)) / 2,
				HullArea:      float64(random.Intn(3)),
			},
		}
	}
	return labels
}

func TestDominanceIsStrictPartialOrder(t *testing.T) {
	strategies := []Strategy{
		NewLongestDuration(),
		NewMostStops(),
		NewCityLoop(),
		NewLongestDistance(),
		&pointToPoint{maxRounds: 4},
	}

	labels := randomLabels(42, 40)

	for _, strategy := range strategies {
		t.Run(string(strategy.Challenge()), func(t *testing.T) {
			for _, a := range labels {
				assert.False(t, strategy.Dominates(a, a), "dominance must be irreflexive")
			}

			for _, a := range labels {
				for _, b := range labels {
					if !strategy.Dominates(a, b) {
						continue
					}
					assert.False(t, strategy.Dominates(b, a), "dominance must be asymmetric")

					for _, c := range labels {
						if strategy.Dominates(b, c) {
							assert.True(t, strategy.Dominates(a, c), "dominance must be transitive")
						}
					}
				}
			}
		})
	}
}

func TestStrategyFor(t *testing.T) {
	for _, challenge := range Challenges {
		strategy, err := StrategyFor(challenge)
		require.NoError(t, err)
		assert.Equal(t, challenge, strategy.Challenge())
		assert.Greater(t, strategy.Constraints().MaxRounds, 0)
		assert.Greater(t, strategy.Beam().MaxQueue, 0)
	}

	_, err := StrategyFor("marathon")
	assert.Error(t, err)
}

func TestScoresPreferTheirObjective(t *testing.T) {
	short := &Label{RideMinutes: 100, DistanceKm: 10, metrics: Metrics{UniqueStops: 5}}
	long := &Label{RideMinutes: 200, DistanceKm: 20, metrics: Metrics{UniqueStops: 10}}

	assert.Greater(t, NewLongestDuration().Score(long), NewLongestDuration().Score(short))
	assert.Greater(t, NewMostStops().Score(long), NewMostStops().Score(short))
	assert.Greater(t, NewLongestDistance().Score(long), NewLongestDistance().Score(short))
}

func TestCityLoopAccept(t *testing.T) {
	strategy := NewCityLoop()

	good := &Label{QuadrantMask: 15, metrics: Metrics{Quadrants: 4, HullArea: 30, AvgRadius: 4, AngleSpan: 270, BoundaryRatio: 0.5}}
	assert.True(t, strategy.Accept(good))

	missingQuadrant := &Label{QuadrantMask: 7, metrics: good.metrics}
	assert.False(t, strategy.Accept(missingQuadrant))

	small := &Label{QuadrantMask: 15, metrics: Metrics{Quadrants: 4, HullArea: 10, AvgRadius: 4, AngleSpan: 270, BoundaryRatio: 0.5}}
	assert.False(t, strategy.Accept(small))

	strategy.MinHullArea = 5
	assert.True(t, strategy.Accept(small))
}

func TestBucketCapacity(t *testing.T) {
	strategy := NewLongestDuration()

	var bucket []*Label
	for i := 0; i < 10; i++ {
		label := &Label{RideMinutes: i, Arrival: 500 + i*10, Score: float64(i)}

		var inserted bool
		bucket, inserted = insertLabel(bucket, label, strategy, DefaultMaxLabelsPerStop)
		assert.True(t, inserted)
	}

	require.Len(t, bucket, DefaultMaxLabelsPerStop)
	for i, label := range bucket {
		assert.Equal(t, float64(9-i), label.Score)
	}

	low := &Label{RideMinutes: 0, Arrival: 600, Score: 0.5}
	_, inserted := insertLabel(bucket, low, strategy, DefaultMaxLabelsPerStop)
	assert.False(t, inserted)
}

func TestBucketDominance(t *testing.T) {
	strategy := NewLongestDuration()

	weak := &Label{RideMinutes: 10, Arrival: 600, Score: 1}
	other := &Label{RideMinutes: 30, Arrival: 700, Score: 3}
	bucket, inserted := insertLabel(nil, weak, strategy, 6)
	require.True(t, inserted)
	bucket, inserted = insertLabel(bucket, other, strategy, 6)
	require.True(t, inserted)

	dominated := &Label{RideMinutes: 5, Arrival: 650, Score: 0}
	_, inserted = insertLabel(bucket, dominated, strategy, 6)
	assert.False(t, inserted)

	duplicate := &Label{RideMinutes: 10, Arrival: 600, Score: 1}
	_, inserted = insertLabel(bucket, duplicate, strategy, 6)
	assert.False(t, inserted)

	strong := &Label{RideMinutes: 20, Arrival: 590, Score: 2}
	bucket, inserted = insertLabel(bucket, strong, strategy, 6)
	require.True(t, inserted)
	assert.Equal(t, []*Label{other, strong}, bucket)
}
