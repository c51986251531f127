package challenges

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/reroute-fukuoka/reroute/pkg/planner"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

const (
	RestStopThresholdMinutes = 15

	// pathSimplifyThreshold is in degrees, roughly ten metres.
	pathSimplifyThreshold = 0.0001

	citywideLabel = "Citywide"
)

var restSuggestions = []string{
	"Grab a drink at a convenience store",
	"Pick up something from a nearby bakery",
	"Take a five minute walk around the block",
	"Check the next route from a bench",
	"Stretch your legs and reset",
}

// Assemble turns a planner result into a presentable plan.
func Assemble(result *planner.Result, network *planner.Network) *Plan {
	meta := metadataFor(result.Challenge)
	legs := planner.CollapseHops(result.Hops)

	plan := &Plan{
		ID:        string(result.Challenge),
		Title:     meta.Title,
		Tagline:   meta.Tagline,
		ThemeTags: meta.ThemeTags,
		StartStop: startStopName(legs, network),
		StartTime: transit.FormatClock(network.HorizonStart),
		Badges:    []string{meta.Badge},
		Method:    string(result.Method),
		Legs:      make([]Leg, 0, len(legs)),
		RestStops: RestStops(legs),
	}

	totalDistance := 0.0
	for i, leg := range legs {
		plan.Legs = append(plan.Legs, presentLeg(i+1, leg))
		plan.TotalRideMinutes += leg.RideMinutes()
		totalDistance += leg.DistanceKm
	}
	plan.TotalDistanceKm = round(totalDistance, 1)
	plan.Transfers = max(0, len(legs)-1)
	plan.Wards = QuadrantLabels(legs, network)

	return plan
}

func startStopName(legs []planner.Leg, network *planner.Network) string {
	if len(legs) > 0 {
		return legs[0].Hops[0].FromName
	}
	if len(network.Origins) > 0 {
		return network.Stations[network.Origins[0]].Name
	}
	return ""
}

func presentLeg(sequence int, leg planner.Leg) Leg {
	first := leg.Hops[0]
	last := leg.Hops[len(leg.Hops)-1]

	line := orb.LineString{{first.FromLon, first.FromLat}}
	for _, hop := range leg.Hops {
		line = append(line, orb.Point{hop.ToLon, hop.ToLat})
	}
	line = simplify.DouglasPeucker(pathSimplifyThreshold).LineString(line)

	geometry := &LineGeometry{Type: "LineString"}
	path := make([]Coordinate, 0, len(line))
	for _, point := range line {
		lon, lat := round(point.Lon(), 6), round(point.Lat(), 6)
		geometry.Coordinates = append(geometry.Coordinates, [2]float64{lon, lat})
		path = append(path, Coordinate{Lat: lat, Lon: lon})
	}

	return Leg{
		Sequence:    sequence,
		LineLabel:   leg.LineID,
		LineName:    leg.LineName,
		FromStop:    first.FromName,
		ToStop:      last.ToName,
		Departure:   transit.FormatClock(leg.Depart),
		Arrival:     transit.FormatClock(leg.Arrive),
		RideMinutes: leg.RideMinutes(),
		DistanceKm:  round(leg.DistanceKm, 2),
		Notes:       []string{fmt.Sprintf("Stops: %d", len(leg.Hops)+1)},
		Geometry:    geometry,
		Path:        path,
		FromCoord:   &Coordinate{Lat: round(first.FromLat, 6), Lon: round(first.FromLon, 6)},
		ToCoord:     &Coordinate{Lat: round(last.ToLat, 6), Lon: round(last.ToLon, 6)},
	}
}

// RestStops suggests a break wherever the wait between two legs is at least
// RestStopThresholdMinutes. The suggestion depends only on the stop code.
func RestStops(legs []planner.Leg) []RestStop {
	restStops := []RestStop{}

	for i := 0; i+1 < len(legs); i++ {
		previous, next := legs[i], legs[i+1]

		idle := next.Depart - previous.Arrive
		if idle < RestStopThresholdMinutes {
			continue
		}

		codeSum := 0
		for _, r := range previous.ToCode {
			codeSum += int(r)
		}

		restStops = append(restStops, RestStop{
			At:         previous.Hops[len(previous.Hops)-1].ToName,
			Minutes:    idle,
			Suggestion: restSuggestions[codeSum%len(restSuggestions)],
		})
	}

	return restStops
}

// QuadrantLabels names the quadrants touched by the boarding and alighting
// stops of the legs, in NE, SE, SW, NW order.
func QuadrantLabels(legs []planner.Leg, network *planner.Network) []string {
	var mask transit.Quadrant
	for _, leg := range legs {
		mask |= network.Quadrant(leg.FromCode)
		mask |= network.Quadrant(leg.ToCode)
	}

	var labels []string
	for _, quadrant := range transit.Quadrants {
		if mask&quadrant != 0 {
			labels = append(labels, quadrant.String())
		}
	}

	if len(labels) == 0 {
		return []string{citywideLabel}
	}
	return labels
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
