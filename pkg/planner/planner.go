package planner

import (
	"context"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

type Method string

const (
	MethodStitched Method = "stitched"
	MethodRouter   Method = "raptor"
	MethodBeam     Method = "beam"
)

type Result struct {
	Challenge Challenge
	Method    Method
	Hops      []transit.TripEdge

	// Score and Metrics are unset for stitched loops.
	Score   float64
	Metrics Metrics
}

// Planner runs the search methods for a challenge in order of preference
// and returns the first itinerary found.
type Planner struct {
	network  *Network
	router   *Router
	beam     *BeamSearch
	stitcher *LoopStitcher
}

func New(network *Network) *Planner {
	return &Planner{
		network:  network,
		router:   NewRouter(network),
		beam:     NewBeamSearch(network),
		stitcher: NewLoopStitcher(network),
	}
}

func (p *Planner) Network() *Network {
	return p.network
}

// Plan returns nil without error when no itinerary satisfies the strategy.
func (p *Planner) Plan(ctx context.Context, strategy Strategy) (*Result, error) {
	challenge := strategy.Challenge()
	request := p.network.ChallengeRequest()

	if challenge == ChallengeCityLoop {
		startTime := time.Now()
		hops, err := p.stitcher.Plan(ctx)
		if err != nil {
			return nil, err
		}
		if hops != nil {
			log.Debug().Str("challenge", string(challenge)).Dur("took", time.Since(startTime)).Msg("Planned with stitched tour")
			return &Result{Challenge: challenge, Method: MethodStitched, Hops: hops}, nil
		}
	}

	for _, method := range []struct {
		name Method
		plan func(context.Context, Request, Strategy) (*Label, error)
	}{
		{MethodRouter, p.router.Plan},
		{MethodBeam, p.beam.Plan},
	} {
		startTime := time.Now()
		label, err := method.plan(ctx, request, strategy)
		if err != nil {
			return nil, err
		}

		log.Debug().
			Str("challenge", string(challenge)).
			Str("method", string(method.name)).
			Bool("found", label != nil).
			Dur("took", time.Since(startTime)).
			Msg("Planner method finished")

		if label != nil {
			return &Result{
				Challenge: challenge,
				Method:    method.name,
				Hops:      label.Hops(),
				Score:     label.Score,
				Metrics:   label.Metrics(),
			}, nil
		}
	}

	return nil, nil
}
