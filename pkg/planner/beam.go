package planner

import (
	"context"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

const beamBucketMinutes = 30

// BeamSearch is a best-first search over individual edges with a bounded
// frontier. It is slower to converge than the router but explores waits and
// same-line continuations the round structure prunes away.
type BeamSearch struct {
	network *Network
}

func NewBeamSearch(network *Network) *BeamSearch {
	return &BeamSearch{network: network}
}

type beamKey struct {
	stopCode string
	slot     int
}

func (b *BeamSearch) Plan(ctx context.Context, request Request, strategy Strategy) (*Label, error) {
	network := b.network
	parameters := strategy.Beam()
	constraints := strategy.Constraints()
	if parameters.RequireUnique {
		constraints.ForbidRepeatVisits = true
	}

	scan := &routeScan{
		strategy:     strategy,
		constraints:  constraints,
		limit:        network.TimeLimit(),
		finishAfter:  request.StartMinutes + request.MinElapsedMinutes,
		destinations: map[string]bool{},
	}
	for _, destination := range request.Destinations {
		scan.destinations[destination] = true
	}

	queue := newBoundedQueue(parameters.MaxQueue)
	bestSeen := map[beamKey]float64{}
	sequence := 0

	for _, origin := range request.Origins {
		if _, exists := network.Stations[origin]; !exists {
			continue
		}

		label := network.seedLabel(origin, request.StartMinutes)
		network.evaluate(label, strategy)
		queue.Push(&searchState{label: label, priority: label.Score, sequence: sequence})
		sequence++
	}

	expansions := 0
	for queue.Len() > 0 && (parameters.MaxExpansions <= 0 || expansions < parameters.MaxExpansions) {
		if expansions%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		state := queue.Pop()
		expansions++
		label := state.label

		if scan.finishes(label) {
			if better(label, scan.best) {
				scan.best = label
			}
			if parameters.StopAtFullCoverage && label.QuadrantMask == transit.AllQuadrants {
				break
			}
		}

		branches := 0
		for _, edge := range network.Timetable.Schedule(label.Stop).From(label.Arrival) {
			if parameters.MaxBranch > 0 && branches >= parameters.MaxBranch {
				break
			}
			if edge.Depart > scan.limit {
				break
			}

			next := network.extend(label, edge, constraints)
			if next == nil {
				continue
			}
			network.evaluate(next, strategy)
			branches++

			if admit(queue, bestSeen, &searchState{label: next, priority: next.Score, sequence: sequence}) {
				sequence++
			}
		}
	}

	return scan.best, nil
}

// admit queues a state unless its (stop, arrival slot) already holds one
// scoring at least as well. Only states the queue accepts are recorded.
func admit(queue *boundedQueue, bestSeen map[beamKey]float64, state *searchState) bool {
	key := beamKey{stopCode: state.label.Stop, slot: state.label.Arrival / beamBucketMinutes}
	if seen, ok := bestSeen[key]; ok && state.priority <= seen {
		return false
	}

	if !queue.Push(state) {
		return false
	}
	bestSeen[key] = state.priority
	return true
}
