package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjection(t *testing.T) {
	projection := NewProjection(33.59, 130.42)

	origin := projection.Project(33.59, 130.42)
	assert.Equal(t, orb.Point{0, 0}, origin)

	north := projection.Project(33.60, 130.42)
	assert.InDelta(t, 0, north[0], 1e-9)
	assert.InDelta(t, 1.10574, north[1], 1e-6)

	east := projection.Project(33.59, 130.43)
	assert.Greater(t, east[0], 0.9)
	assert.Less(t, east[0], 1.0)
	assert.InDelta(t, 0, east[1], 1e-9)
}

func TestHaversineKm(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(33.59, 130.42, 33.59, 130.42), 1e-9)
	assert.InDelta(t, 1.11, HaversineKm(33.59, 130.42, 33.60, 130.42), 0.01)
}

func TestConvexHull(t *testing.T) {
	tests := []struct {
		name   string
		points []orb.Point
		hull   int
		area   float64
	}{
		{
			name:   "empty",
			points: nil,
			hull:   0,
			area:   0,
		},
		{
			name:   "collinear",
			points: []orb.Point{{0, 0}, {1, 1}, {2, 2}},
			hull:   2,
			area:   0,
		},
		{
			name:   "square with interior point",
			points: []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}, {0, 0}},
			hull:   4,
			area:   4,
		},
		{
			name:   "triangle",
			points: []orb.Point{{0, 0}, {4, 0}, {0, 3}},
			hull:   3,
			area:   6,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hull := ConvexHull(test.points)
			assert.Len(t, hull, test.hull)
			assert.InDelta(t, test.area, HullArea(test.points), 1e-9)
		})
	}
}

func TestAngularMetrics(t *testing.T) {
	bearing := Bearing(orb.Point{1, 0})
	assert.InDelta(t, 90, bearing, 1e-9)
	assert.InDelta(t, 270, Bearing(orb.Point{-1, 0}), 1e-9)
	assert.InDelta(t, -20, TurnDelta(10, 350), 1e-9)
	assert.InDelta(t, 20, TurnDelta(350, 10), 1e-9)

	span, turn := AngularMetrics([]orb.Point{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}})
	assert.InDelta(t, 270, span, 1e-9)
	assert.InDelta(t, 270, turn, 1e-9)

	span, turn = AngularMetrics([]orb.Point{{0, 0}, {0, 1}})
	assert.Zero(t, span)
	assert.Zero(t, turn)
}

func TestQuadrants(t *testing.T) {
	assert.Equal(t, transit.QuadrantNorthEast, QuadrantOf(1, 1, 0, 0))
	assert.Equal(t, transit.QuadrantSouthEast, QuadrantOf(-1, 1, 0, 0))
	assert.Equal(t, transit.QuadrantSouthWest, QuadrantOf(-1, -1, 0, 0))
	assert.Equal(t, transit.QuadrantNorthWest, QuadrantOf(1, -1, 0, 0))
	assert.Equal(t, transit.QuadrantNorthEast, QuadrantOf(0, 0, 0, 0))

	assert.Equal(t, 4, QuadrantCount(transit.AllQuadrants))
	assert.Equal(t, 2, QuadrantCount(int(transit.QuadrantNorthEast|transit.QuadrantSouthWest)))
	assert.Equal(t, []transit.Quadrant{transit.QuadrantSouthEast, transit.QuadrantNorthWest}, QuadrantsInMask(10))
}

func TestDistanceToBoundary(t *testing.T) {
	square := orb.Ring{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}, {-5, -5}}

	assert.InDelta(t, 5, DistanceToBoundary(orb.Point{0, 0}, []orb.Ring{square}), 1e-9)
	assert.InDelta(t, 1, DistanceToBoundary(orb.Point{4, 0}, []orb.Ring{square}), 1e-9)
	assert.True(t, DistanceToBoundary(orb.Point{0, 0}, nil) > 1e9)
}

func TestBoundarySequenceEmptyWithoutBoundary(t *testing.T) {
	origin := Site{Code: "O", Lat: 33.59, Lon: 130.42}
	sequence := BoundarySequence([]Site{{Code: "A", Lat: 33.62, Lon: 130.42}}, origin, nil, DefaultBoundaryOptions)
	require.Empty(t, sequence)
}
