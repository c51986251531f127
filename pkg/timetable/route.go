package timetable

import (
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// RouteTrip is one vehicle run along a route's stop sequence. Arrivals[0]
// equals the first departure and Departures[last] equals the final arrival.
type RouteTrip struct {
	TripID      string
	ServiceDate string

	Departures []int
	Arrivals   []int
	Distances  []float64

	// Edges[i] is the hop from stop i to stop i+1.
	Edges []transit.TripEdge
}

type RouteData struct {
	ID        string
	LineID    string
	LineName  string
	Direction string

	Stops     []string
	StopIndex map[string]int

	Trips []RouteTrip
}

// EarliestTrip returns the index of the trip leaving the stop at position
// stopIndex soonest at or after earliest.
func (r *RouteData) EarliestTrip(stopIndex int, earliest int) (int, bool) {
	if stopIndex < 0 || stopIndex >= len(r.Stops)-1 {
		return 0, false
	}

	best := -1
	for i, trip := range r.Trips {
		departure := trip.Departures[stopIndex]
		if departure < earliest {
			continue
		}
		if best == -1 || departure < r.Trips[best].Departures[stopIndex] {
			best = i
		}
	}

	return best, best != -1
}

func routeID(lineID string, direction string) string {
	return lineID + ":" + direction
}

// tripChain is a trip's edges ordered by departure that link up end to end.
type tripChain struct {
	edges []transit.TripEdge
	stops []string
}

func (c tripChain) signature() string {
	return strings.Join(c.stops, ">")
}

func (c tripChain) firstDeparture() int {
	return c.edges[0].Depart
}

func newTripChain(edges []transit.TripEdge) (tripChain, bool) {
	stops := make([]string, 0, len(edges)+1)
	stops = append(stops, edges[0].FromCode)

	for i, edge := range edges {
		if i > 0 {
			previous := edges[i-1]
			if previous.ToCode != edge.FromCode || edge.Depart < previous.Arrive {
				return tripChain{}, false
			}
		}
		stops = append(stops, edge.ToCode)
	}

	return tripChain{edges: edges, stops: stops}, true
}

func (c tripChain) routeTrip() RouteTrip {
	count := len(c.stops)
	trip := RouteTrip{
		TripID:      c.edges[0].TripID,
		ServiceDate: c.edges[0].ServiceDate,
		Departures:  make([]int, count),
		Arrivals:    make([]int, count),
		Distances:   make([]float64, len(c.edges)),
		Edges:       c.edges,
	}

	trip.Arrivals[0] = c.edges[0].Depart
	for i, edge := range c.edges {
		trip.Departures[i] = edge.Depart
		trip.Arrivals[i+1] = edge.Arrive
		trip.Distances[i] = edge.DistanceKm
	}
	trip.Departures[count-1] = c.edges[len(c.edges)-1].Arrive

	return trip
}
