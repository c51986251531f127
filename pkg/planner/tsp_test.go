package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func squareMatrix() distanceMatrix {
	points := map[string][2]float64{
		"S": {0, 0},
		"A": {0, 1},
		"B": {1, 1},
		"C": {1, 0},
	}

	matrix := distanceMatrix{}
	for a, pa := range points {
		for b, pb := range points {
			if a != b {
				matrix[[2]string{a, b}] = math.Hypot(pa[0]-pb[0], pa[1]-pb[1])
			}
		}
	}
	return matrix
}

func TestNearestNeighbourTour(t *testing.T) {
	tour := nearestNeighbourTour([]string{"S", "A", "B", "C"}, squareMatrix())
	assert.Equal(t, []string{"S", "A", "B", "C", "S"}, tour)
}

func TestTwoOptRemovesCrossing(t *testing.T) {
	matrix := squareMatrix()
	crossing := []string{"S", "B", "A", "C", "S"}

	improved := twoOpt(crossing, matrix)
	assert.Equal(t, []string{"S", "A", "B", "C", "S"}, improved)
	assert.InDelta(t, 4, matrix.length(improved), 1e-9)
	assert.Less(t, matrix.length(improved), matrix.length(crossing))
}

func TestCandidateToursAreUnique(t *testing.T) {
	tours := candidateTours([]string{"S", "A", "B", "C"}, squareMatrix())

	assert.Equal(t, [][]string{
		{"S", "A", "B", "C", "S"},
		{"S", "C", "B", "A", "S"},
	}, tours)

	for _, tour := range tours {
		assert.Equal(t, "S", tour[0])
		assert.Equal(t, "S", tour[len(tour)-1])
	}
}
