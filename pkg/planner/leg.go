package planner

import "github.com/reroute-fukuoka/reroute/pkg/transit"

// Leg is a continuous ride on one trip.
type Leg struct {
	LineID   string
	LineName string
	TripID   string

	FromCode string
	ToCode   string
	Depart   int
	Arrive   int

	DistanceKm float64
	Hops       []transit.TripEdge
}

func (l Leg) RideMinutes() int {
	return l.Arrive - l.Depart
}

// Stops lists every stop the leg passes, boarding and alighting included.
func (l Leg) Stops() []string {
	stops := []string{l.FromCode}
	for _, hop := range l.Hops {
		stops = append(stops, hop.ToCode)
	}
	return stops
}

// CollapseHops merges consecutive hops served by the same trip into legs.
func CollapseHops(hops []transit.TripEdge) []Leg {
	var legs []Leg

	for _, hop := range hops {
		if len(legs) > 0 {
			last := &legs[len(legs)-1]
			previous := last.Hops[len(last.Hops)-1]
			if previous.SameTrip(hop) && previous.ToCode == hop.FromCode && hop.Depart >= previous.Arrive {
				last.ToCode = hop.ToCode
				last.Arrive = hop.Arrive
				last.DistanceKm += hop.DistanceKm
				last.Hops = append(last.Hops, hop)
				continue
			}
		}

		legs = append(legs, Leg{
			LineID:     hop.LineID,
			LineName:   hop.LineName,
			TripID:     hop.TripID,
			FromCode:   hop.FromCode,
			ToCode:     hop.ToCode,
			Depart:     hop.Depart,
			Arrive:     hop.Arrive,
			DistanceKm: hop.DistanceKm,
			Hops:       []transit.TripEdge{hop},
		})
	}

	return legs
}
