package planner

import (
	"context"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const (
	minimumTourNodes = 4

	stitchRounds          = 4
	stitchTransferMinutes = 5
)

// LoopStitcher builds a city loop by ordering the boundary stops as a
// travelling salesman tour and routing between consecutive stops.
type LoopStitcher struct {
	network *Network
	router  *Router
}

func NewLoopStitcher(network *Network) *LoopStitcher {
	return &LoopStitcher{network: network, router: NewRouter(network)}
}

// Plan returns the hops of the first candidate tour that can be ridden in
// full within the horizon and touches every quadrant, or nil.
func (s *LoopStitcher) Plan(ctx context.Context) ([]transit.TripEdge, error) {
	network := s.network
	if len(network.Origins) == 0 || len(network.Boundary.Sequence) == 0 {
		return nil, nil
	}

	start := network.Origins[0]
	nodes := []string{start}
	for _, stopCode := range network.Boundary.Sequence {
		if stopCode != start && !slices.Contains(nodes, stopCode) {
			nodes = append(nodes, stopCode)
		}
	}

	if len(nodes) < minimumTourNodes {
		log.Debug().Int("candidates", len(nodes)).Msg("Not enough boundary stops for a stitched loop")
		return nil, nil
	}

	matrix := network.distanceMatrix(nodes)
	tours := candidateTours(nodes, matrix)

	for index, tour := range tours {
		hops, err := s.stitch(ctx, tour)
		if err != nil {
			return nil, err
		}
		if hops == nil {
			continue
		}

		log.Debug().Int("tour", index).Int("hops", len(hops)).Msg("Stitched city loop")
		return hops, nil
	}

	return nil, nil
}

func (s *LoopStitcher) stitch(ctx context.Context, tour []string) ([]transit.TripEdge, error) {
	network := s.network
	strategy := &pointToPoint{maxRounds: stitchRounds, minTransferMinutes: stitchTransferMinutes}

	var hops []transit.TripEdge
	now := network.HorizonStart

	for i := 0; i+1 < len(tour); i++ {
		from, to := tour[i], tour[i+1]
		if from == to {
			continue
		}

		label, err := s.segment(ctx, strategy, from, to, now, hops)
		if err != nil {
			return nil, err
		}
		if label == nil {
			return nil, nil
		}

		hops = append(hops, label.Hops()...)
		now = label.Arrival

		if now-network.HorizonStart > transit.MinutesPerDay {
			return nil, nil
		}
	}

	if len(hops) == 0 {
		return nil, nil
	}

	mask := network.QuadrantMask(tour[0])
	for _, hop := range hops {
		mask |= network.QuadrantMask(hop.FromCode, hop.ToCode)
	}
	if mask != transit.AllQuadrants {
		return nil, nil
	}

	return hops, nil
}

// segment routes from one tour stop to the next. Staying aboard the trip
// just ridden needs no transfer buffer; any other boarding waits
// stitchTransferMinutes after the previous arrival.
func (s *LoopStitcher) segment(ctx context.Context, strategy Strategy, from string, to string, now int, previous []transit.TripEdge) (*Label, error) {
	request := Request{
		Origins:      []string{from},
		Destinations: []string{to},
		StartMinutes: now,
	}

	label, err := s.router.Plan(ctx, request, strategy)
	if err != nil || label == nil || len(previous) == 0 {
		return label, err
	}

	first := label.Hops()[0]
	last := previous[len(previous)-1]
	if first.SameTrip(last) && first.FromCode == last.ToCode && first.Depart >= last.Arrive {
		return label, nil
	}
	if first.Depart >= now+stitchTransferMinutes {
		return label, nil
	}

	request.StartMinutes = now + stitchTransferMinutes
	return s.router.Plan(ctx, request, strategy)
}
