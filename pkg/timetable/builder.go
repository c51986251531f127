package timetable

import (
	"sort"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

type Options struct {
	HorizonStart     int
	HorizonEnd       int
	MaxTripsPerRoute int
	MaxRoutes        int
}

var DefaultOptions = Options{
	HorizonStart:     transit.StartTimeMinutes,
	HorizonEnd:       transit.StartTimeMinutes + transit.MinutesPerDay,
	MaxTripsPerRoute: 60,
	MaxRoutes:        400,
}

type Timetable struct {
	StopSchedules map[string]*StopSchedule

	Routes       map[string]*RouteData
	RouteIDs     []string
	RoutesByStop map[string][]string
}

// Schedule returns the departures from a stop, or nil.
func (t *Timetable) Schedule(stopCode string) *StopSchedule {
	return t.StopSchedules[stopCode]
}

// ServedStops lists every stop that appears on at least one route.
func (t *Timetable) ServedStops() map[string]bool {
	served := map[string]bool{}
	for stopCode := range t.RoutesByStop {
		served[stopCode] = true
	}
	for stopCode := range t.StopSchedules {
		served[stopCode] = true
	}
	return served
}

// Build indexes the edges inside the planning horizon by departure stop and
// groups whole trips into routes with a single canonical stop pattern.
func Build(edges []transit.TripEdge, options Options) *Timetable {
	if options.HorizonEnd <= options.HorizonStart {
		options.HorizonEnd = options.HorizonStart + transit.MinutesPerDay
	}

	var usable []transit.TripEdge
	for _, edge := range edges {
		if edge.FromCode == "" || edge.ToCode == "" || edge.FromCode == edge.ToCode {
			continue
		}
		if edge.Arrive <= edge.Depart {
			continue
		}
		if edge.Arrive < options.HorizonStart || edge.Depart > options.HorizonEnd {
			continue
		}
		usable = append(usable, edge)
	}

	timetable := &Timetable{
		StopSchedules: buildStopSchedules(usable),
		Routes:        map[string]*RouteData{},
		RoutesByStop:  map[string][]string{},
	}

	routes := buildRoutes(usable, options)
	for _, route := range routes {
		timetable.Routes[route.ID] = route
		timetable.RouteIDs = append(timetable.RouteIDs, route.ID)

		for _, stopCode := range route.Stops {
			timetable.RoutesByStop[stopCode] = append(timetable.RoutesByStop[stopCode], route.ID)
		}
	}

	sort.Strings(timetable.RouteIDs)
	for stopCode := range timetable.RoutesByStop {
		sort.Strings(timetable.RoutesByStop[stopCode])
	}

	return timetable
}

func buildRoutes(edges []transit.TripEdge, options Options) []*RouteData {
	tripEdges := map[string][]transit.TripEdge{}
	var tripKeys []string
	for _, edge := range edges {
		key := edge.TripKey()
		if _, exists := tripEdges[key]; !exists {
			tripKeys = append(tripKeys, key)
		}
		tripEdges[key] = append(tripEdges[key], edge)
	}
	sort.Strings(tripKeys)

	chainsByRoute := map[string][]tripChain{}
	var routeIDs []string

	for _, key := range tripKeys {
		tripEdgeList := tripEdges[key]
		sort.SliceStable(tripEdgeList, func(i, j int) bool {
			return lessEdge(tripEdgeList[i], tripEdgeList[j])
		})

		chain, ok := newTripChain(tripEdgeList)
		if !ok {
			continue
		}

		id := routeID(tripEdgeList[0].LineID, tripEdgeList[0].Direction)
		if _, exists := chainsByRoute[id]; !exists {
			routeIDs = append(routeIDs, id)
		}
		chainsByRoute[id] = append(chainsByRoute[id], chain)
	}

	var routes []*RouteData
	for _, id := range routeIDs {
		route := buildRoute(id, chainsByRoute[id], options.MaxTripsPerRoute)
		if route != nil {
			routes = append(routes, route)
		}
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if len(routes[i].Trips) != len(routes[j].Trips) {
			return len(routes[i].Trips) > len(routes[j].Trips)
		}
		return routes[i].ID < routes[j].ID
	})

	if options.MaxRoutes > 0 && len(routes) > options.MaxRoutes {
		routes = routes[:options.MaxRoutes]
	}

	return routes
}

// canonicalPattern picks the stop sequence run by the most trips, preferring
// longer sequences and then the one running earliest.
func canonicalPattern(chains []tripChain) string {
	counts := map[string]int{}
	length := map[string]int{}
	first := map[string]int{}

	for _, chain := range chains {
		signature := chain.signature()
		counts[signature]++
		length[signature] = len(chain.stops)
		if existing, ok := first[signature]; !ok || chain.firstDeparture() < existing {
			first[signature] = chain.firstDeparture()
		}
	}

	best := ""
	for signature := range counts {
		if best == "" {
			best = signature
			continue
		}

		switch {
		case counts[signature] != counts[best]:
			if counts[signature] > counts[best] {
				best = signature
			}
		case length[signature] != length[best]:
			if length[signature] > length[best] {
				best = signature
			}
		case first[signature] != first[best]:
			if first[signature] < first[best] {
				best = signature
			}
		case signature < best:
			best = signature
		}
	}

	return best
}

func buildRoute(id string, chains []tripChain, maxTrips int) *RouteData {
	if len(chains) == 0 {
		return nil
	}

	pattern := canonicalPattern(chains)

	var matching []tripChain
	for _, chain := range chains {
		if chain.signature() == pattern {
			matching = append(matching, chain)
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].firstDeparture() < matching[j].firstDeparture()
	})

	if maxTrips > 0 && len(matching) > maxTrips {
		matching = matching[:maxTrips]
	}

	firstEdge := matching[0].edges[0]
	route := &RouteData{
		ID:        id,
		LineID:    firstEdge.LineID,
		LineName:  firstEdge.LineName,
		Direction: firstEdge.Direction,
		Stops:     matching[0].stops,
		StopIndex: map[string]int{},
	}

	for i, stopCode := range route.Stops {
		if _, exists := route.StopIndex[stopCode]; !exists {
			route.StopIndex[stopCode] = i
		}
	}

	for _, chain := range matching {
		route.Trips = append(route.Trips, chain.routeTrip())
	}

	return route
}
