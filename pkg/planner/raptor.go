package planner

import (
	"context"
	"sort"

	"github.com/reroute-fukuoka/reroute/pkg/timetable"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// Request describes where a search starts and where it may finish.
type Request struct {
	Origins      []string
	Destinations []string
	StartMinutes int

	// MinElapsedMinutes is how long after StartMinutes a finishing label
	// must arrive.
	MinElapsedMinutes int
}

// ChallengeRequest starts and finishes a search at the network origins.
func (n *Network) ChallengeRequest() Request {
	return Request{
		Origins:           n.Origins,
		Destinations:      n.Origins,
		StartMinutes:      n.HorizonStart,
		MinElapsedMinutes: transit.MinimumElapsedMinutes,
	}
}

// Router is a round-based multi-criteria label-setting router. Each round
// allows one more boarding.
type Router struct {
	network *Network
}

func NewRouter(network *Network) *Router {
	return &Router{network: network}
}

type routeScan struct {
	strategy     Strategy
	constraints  Constraints
	capacity     int
	limit        int
	finishAfter  int
	destinations map[string]bool

	next       map[string][]*Label
	nextMarked map[string]bool
	best       *Label
}

// Plan returns the best accepted label, or nil when nothing qualifies.
func (r *Router) Plan(ctx context.Context, request Request, strategy Strategy) (*Label, error) {
	network := r.network
	constraints := strategy.Constraints()

	maxRounds := constraints.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	scan := &routeScan{
		strategy:     strategy,
		constraints:  constraints,
		capacity:     network.MaxLabelsPerStop,
		limit:        network.TimeLimit(),
		finishAfter:  request.StartMinutes + request.MinElapsedMinutes,
		destinations: map[string]bool{},
	}
	for _, destination := range request.Destinations {
		scan.destinations[destination] = true
	}

	current := map[string][]*Label{}
	marked := map[string]bool{}
	for _, origin := range request.Origins {
		if _, exists := network.Stations[origin]; !exists {
			continue
		}

		label := network.seedLabel(origin, request.StartMinutes)
		network.evaluate(label, strategy)

		var inserted bool
		current[origin], inserted = insertLabel(current[origin], label, strategy, scan.capacity)
		if inserted {
			marked[origin] = true
		}
	}

	for round := 0; round < maxRounds && len(marked) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scan.next = map[string][]*Label{}
		scan.nextMarked = map[string]bool{}

		for _, routeID := range network.routesServing(marked) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			route := network.Timetable.Routes[routeID]
			for position := 0; position < len(route.Stops)-1; position++ {
				stopCode := route.Stops[position]
				if !marked[stopCode] {
					continue
				}

				for _, label := range current[stopCode] {
					network.scanTrip(scan, route, position, label)
				}
			}
		}

		current = scan.next
		marked = scan.nextMarked
	}

	return scan.best, nil
}

// routesServing lists, in id order, the routes calling at any marked stop.
func (n *Network) routesServing(marked map[string]bool) []string {
	seen := map[string]bool{}
	var routeIDs []string

	for stopCode := range marked {
		for _, routeID := range n.Timetable.RoutesByStop[stopCode] {
			if !seen[routeID] {
				seen[routeID] = true
				routeIDs = append(routeIDs, routeID)
			}
		}
	}

	sort.Strings(routeIDs)
	return routeIDs
}

// scanTrip boards the earliest reachable trip at position and rides it
// forward, offering a label at every stop it reaches.
func (n *Network) scanTrip(scan *routeScan, route *timetable.RouteData, position int, label *Label) {
	earliest := label.Arrival
	if label.hopCount > 0 {
		earliest += scan.constraints.MinTransferMinutes
	}

	tripIndex, ok := route.EarliestTrip(position, earliest)
	if !ok {
		return
	}
	trip := route.Trips[tripIndex]

	current := label
	for segment := position; segment < len(route.Stops)-1; segment++ {
		edge := trip.Edges[segment]
		if edge.Arrive > scan.limit {
			return
		}

		extended := n.extend(current, edge, scan.constraints)
		if extended == nil {
			return
		}
		n.evaluate(extended, scan.strategy)
		current = extended

		var inserted bool
		scan.next[edge.ToCode], inserted = insertLabel(scan.next[edge.ToCode], extended, scan.strategy, scan.capacity)
		if inserted {
			scan.nextMarked[edge.ToCode] = true
		}

		if scan.finishes(extended) && better(extended, scan.best) {
			scan.best = extended
		}
	}
}

func (s *routeScan) finishes(label *Label) bool {
	if !s.destinations[label.Stop] || label.hopCount == 0 {
		return false
	}
	if label.Arrival < s.finishAfter {
		return false
	}
	if s.constraints.RequireAllQuadrants && label.QuadrantMask != transit.AllQuadrants {
		return false
	}
	return s.strategy.Accept(label)
}
