package planner

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	twoOptIterations = 30
	twoOptEpsilon    = 1e-6
)

type distanceMatrix map[[2]string]float64

func (n *Network) distanceMatrix(nodes []string) distanceMatrix {
	matrix := distanceMatrix{}
	for _, a := range nodes {
		for _, b := range nodes {
			if a != b {
				matrix[[2]string{a, b}] = n.PlanarDistance(a, b)
			}
		}
	}
	return matrix
}

func (m distanceMatrix) distance(a string, b string) float64 {
	if a == b {
		return 0
	}
	if d, ok := m[[2]string{a, b}]; ok {
		return d
	}
	return math.Inf(1)
}

func (m distanceMatrix) length(tour []string) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		total += m.distance(tour[i], tour[i+1])
	}
	return total
}

// nearestNeighbourTour greedily visits the closest unvisited node and
// returns to the start.
func nearestNeighbourTour(nodes []string, matrix distanceMatrix) []string {
	start := nodes[0]
	unvisited := append([]string(nil), nodes[1:]...)
	tour := []string{start}
	current := start

	for len(unvisited) > 0 {
		nearest := 0
		for i := 1; i < len(unvisited); i++ {
			if matrix.distance(current, unvisited[i]) < matrix.distance(current, unvisited[nearest]) {
				nearest = i
			}
		}

		current = unvisited[nearest]
		tour = append(tour, current)
		unvisited = append(unvisited[:nearest], unvisited[nearest+1:]...)
	}

	return append(tour, start)
}

// twoOpt reverses tour sections while that shortens the closed tour, taking
// the first improvement found on each pass.
func twoOpt(tour []string, matrix distanceMatrix) []string {
	best := append([]string(nil), tour...)
	bestLength := matrix.length(best)

	for iteration := 0; iteration < twoOptIterations; iteration++ {
		improved := false

		for i := 1; i < len(best)-2 && !improved; i++ {
			for j := i + 2; j < len(best)-1; j++ {
				candidate := make([]string, 0, len(best))
				candidate = append(candidate, best[:i]...)
				section := append([]string(nil), best[i:j]...)
				slices.Reverse(section)
				candidate = append(candidate, section...)
				candidate = append(candidate, best[j:]...)

				if length := matrix.length(candidate); length+twoOptEpsilon < bestLength {
					best = candidate
					bestLength = length
					improved = true
					break
				}
			}
		}

		if !improved {
			break
		}
	}

	return best
}

// candidateTours proposes closed visiting orders for the nodes, the first
// of which is the start: nearest neighbour, its reverse, its 2-opt
// improvement and the nodes in their given order.
func candidateTours(nodes []string, matrix distanceMatrix) [][]string {
	nearest := nearestNeighbourTour(nodes, matrix)

	reversed := append([]string(nil), nearest...)
	slices.Reverse(reversed)

	cycle := append([]string(nil), nodes...)
	if cycle[len(cycle)-1] != cycle[0] {
		cycle = append(cycle, cycle[0])
	}

	var tours [][]string
	seen := map[string]bool{}
	for _, tour := range [][]string{nearest, reversed, twoOpt(nearest, matrix), cycle} {
		key := strings.Join(tour, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		tours = append(tours, tour)
	}

	return tours
}
