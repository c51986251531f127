package timetable

import (
	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// Boundary is the closed sequence of stops tracing the city edge, starting
// and finishing at the origin, with each stop's first position.
type Boundary struct {
	Sequence []string
	Index    map[string]int
}

// Stops returns the boundary stops excluding the origin framing.
func (b Boundary) Stops() []string {
	if len(b.Sequence) <= 2 {
		return nil
	}
	return b.Sequence[1 : len(b.Sequence)-1]
}

func (b Boundary) Contains(stopCode string) bool {
	index, ok := b.Index[stopCode]
	return ok && index > 0
}

// BuildBoundary derives the boundary sequence from the candidate stations.
// Pass only stations the timetable serves so every member is reachable.
func BuildBoundary(stations []transit.Station, origin transit.Station, rings []orb.Ring, options geometry.BoundaryOptions) Boundary {
	sites := make([]geometry.Site, 0, len(stations))
	for _, station := range stations {
		sites = append(sites, geometry.Site{Code: station.Code, Lat: station.Lat, Lon: station.Lon})
	}

	sequence := geometry.BoundarySequence(
		sites,
		geometry.Site{Code: origin.Code, Lat: origin.Lat, Lon: origin.Lon},
		rings,
		options,
	)

	boundary := Boundary{Sequence: sequence, Index: map[string]int{}}
	for i, stopCode := range sequence {
		if _, exists := boundary.Index[stopCode]; !exists {
			boundary.Index[stopCode] = i
		}
	}

	return boundary
}
