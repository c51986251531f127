package challenges

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/loader"
	"github.com/reroute-fukuoka/reroute/pkg/planner"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/reroute-fukuoka/reroute/pkg/timetable"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

var (
	ErrChallengeNotFound = errors.New("challenge not available")
	ErrNoPlans           = errors.New("no plans available")
)

// Source provides the planning input and a fingerprint that changes when
// the input does.
type Source interface {
	Fingerprint() (string, error)
	Load(ctx context.Context) (*loader.Dataset, error)
}

// SnapshotStore persists the last good set of plans.
type SnapshotStore interface {
	Save(ctx context.Context, plans []*Plan) error
	Load(ctx context.Context) ([]*Plan, error)
}

type Options struct {
	Challenges       []planner.Challenge
	ChallengeTimeout time.Duration

	StartMinutes     int
	InnerRadiusKm    float64
	MaxLabelsPerStop int
	Timetable        timetable.Options
	Boundary         geometry.BoundaryOptions

	// Strategies overrides the default strategy of a challenge.
	Strategies map[planner.Challenge]planner.Strategy

	Realtime  *realtime.Manager
	Snapshots SnapshotStore
}

func DefaultOptions() Options {
	return Options{
		Challenges:       planner.Challenges,
		StartMinutes:     transit.StartTimeMinutes,
		InnerRadiusKm:    planner.DefaultInnerRadiusKm,
		MaxLabelsPerStop: planner.DefaultMaxLabelsPerStop,
		Timetable:        timetable.DefaultOptions,
		Boundary:         geometry.DefaultBoundaryOptions,
	}
}

// Service caches assembled plans and recomputes them when the source data
// changes or, with realtime enabled, when the realtime TTL has passed.
// Concurrent callers share a single recompute.
type Service struct {
	source  Source
	options Options
	now     func() time.Time

	mutex       sync.Mutex
	plans       map[string]*Plan
	order       []string
	fingerprint string
	dataset     *loader.Dataset
	generatedAt time.Time
}

func NewService(source Source, options Options) *Service {
	if len(options.Challenges) == 0 {
		options.Challenges = planner.Challenges
	}
	if options.StartMinutes <= 0 {
		options.StartMinutes = transit.StartTimeMinutes
	}

	return &Service{
		source:  source,
		options: options,
		now:     time.Now,
	}
}

// Plans returns every challenge that produced a plan, in challenge order.
func (s *Service) Plans(ctx context.Context) ([]*Plan, error) {
	plans, order, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	var list []*Plan
	for _, id := range order {
		if plan := plans[id]; plan != nil {
			list = append(list, plan)
		}
	}
	if len(list) == 0 {
		return nil, ErrNoPlans
	}
	return list, nil
}

func (s *Service) Plan(ctx context.Context, id string) (*Plan, error) {
	plans, _, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	plan := plans[id]
	if plan == nil {
		return nil, ErrChallengeNotFound
	}
	return plan, nil
}

func (s *Service) ensure(ctx context.Context) (map[string]*Plan, []string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	fingerprint, fingerprintErr := s.source.Fingerprint()

	staticStale := s.plans == nil || s.dataset == nil || fingerprintErr != nil || fingerprint != s.fingerprint
	realtimeStale := s.options.Realtime.Enabled() && now.Sub(s.generatedAt) >= s.options.Realtime.TTL()

	if s.plans != nil && !staticStale && !realtimeStale {
		return s.plans, s.order, nil
	}

	dataset := s.dataset
	if staticStale {
		loaded, err := s.load(ctx, fingerprintErr)
		if err != nil {
			if s.plans != nil {
				log.Warn().Err(err).Msg("Failed to reload challenge data, serving previous plans")
				return s.plans, s.order, nil
			}
			return s.fromSnapshot(ctx, err)
		}
		dataset = loaded

		if s.options.Realtime != nil {
			s.options.Realtime.LoadStaticEdges(dataset.Edges)
		}
	}

	plans, order, err := s.compute(ctx, dataset)
	if err != nil {
		if s.plans != nil {
			log.Warn().Err(err).Msg("Failed to recompute challenges, serving previous plans")
			return s.plans, s.order, nil
		}
		return s.fromSnapshot(ctx, err)
	}

	s.plans, s.order = plans, order
	s.dataset = dataset
	s.fingerprint = fingerprint
	s.generatedAt = now

	s.saveSnapshot(ctx)

	return s.plans, s.order, nil
}

func (s *Service) load(ctx context.Context, fingerprintErr error) (*loader.Dataset, error) {
	if fingerprintErr != nil {
		return nil, fingerprintErr
	}
	return s.source.Load(ctx)
}

func (s *Service) fromSnapshot(ctx context.Context, cause error) (map[string]*Plan, []string, error) {
	if s.options.Snapshots == nil {
		return nil, nil, cause
	}

	snapshot, err := s.options.Snapshots.Load(ctx)
	if err != nil || len(snapshot) == 0 {
		return nil, nil, cause
	}

	log.Warn().Err(cause).Int("plans", len(snapshot)).Msg("Serving plans from snapshot")

	plans := map[string]*Plan{}
	var order []string
	for _, plan := range snapshot {
		plans[plan.ID] = plan
		order = append(order, plan.ID)
	}
	return plans, order, nil
}

func (s *Service) saveSnapshot(ctx context.Context) {
	if s.options.Snapshots == nil {
		return
	}

	var list []*Plan
	for _, id := range s.order {
		if plan := s.plans[id]; plan != nil {
			list = append(list, plan)
		}
	}
	if len(list) == 0 {
		return
	}

	if err := s.options.Snapshots.Save(ctx, list); err != nil {
		log.Warn().Err(err).Msg("Failed to save plan snapshot")
	}
}

// Network builds the planning network for a dataset using the service's
// options and, when realtime is enabled, the realtime adjusted edges.
func (s *Service) Network(ctx context.Context, dataset *loader.Dataset) (*planner.Network, error) {
	edges := dataset.Edges
	if s.options.Realtime.Enabled() {
		start := s.options.StartMinutes
		edges = s.options.Realtime.EdgesForWindow(ctx, start, start+transit.MinutesPerDay, dataset.EligibleLines, true)
	}

	timetableOptions := s.options.Timetable
	if timetableOptions.MaxTripsPerRoute <= 0 {
		timetableOptions.MaxTripsPerRoute = timetable.DefaultOptions.MaxTripsPerRoute
	}
	if timetableOptions.MaxRoutes <= 0 {
		timetableOptions.MaxRoutes = timetable.DefaultOptions.MaxRoutes
	}
	timetableOptions.HorizonStart = s.options.StartMinutes
	timetableOptions.HorizonEnd = s.options.StartMinutes + transit.MinutesPerDay

	boundaryOptions := s.options.Boundary
	if boundaryOptions.Bins <= 0 {
		boundaryOptions = geometry.DefaultBoundaryOptions
	}
	if s.options.InnerRadiusKm > 0 {
		boundaryOptions.InnerRadiusKm = s.options.InnerRadiusKm
	}

	tt := timetable.Build(edges, timetableOptions)

	// Boundary stops must be reachable or every stitched tour through them fails.
	served := tt.ServedStops()
	candidates := make([]transit.Station, 0, len(served))
	for _, station := range dataset.StationList {
		if served[station.Code] {
			candidates = append(candidates, station)
		}
	}

	return planner.NewNetwork(planner.NetworkConfig{
		Stations:         dataset.Stations,
		Origins:          dataset.Origins,
		CentreLat:        dataset.CentreLat,
		CentreLon:        dataset.CentreLon,
		Timetable:        tt,
		Boundary:         timetable.BuildBoundary(candidates, dataset.Centre(), dataset.Boundary, boundaryOptions),
		InnerRadiusKm:    boundaryOptions.InnerRadiusKm,
		HorizonStart:     s.options.StartMinutes,
		MaxLabelsPerStop: s.options.MaxLabelsPerStop,
	})
}

type challengeOutcome struct {
	challenge planner.Challenge
	plan      *Plan
}

func (s *Service) compute(ctx context.Context, dataset *loader.Dataset) (map[string]*Plan, []string, error) {
	startTime := time.Now()

	network, err := s.Network(ctx, dataset)
	if err != nil {
		return nil, nil, err
	}

	p := pool.NewWithResults[challengeOutcome]()
	for _, challenge := range s.options.Challenges {
		p.Go(func() challengeOutcome {
			outcome := challengeOutcome{challenge: challenge}

			var catcher panics.Catcher
			catcher.Try(func() {
				outcome.plan = s.planChallenge(ctx, network, challenge)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				log.Error().Str("challenge", string(challenge)).Str("panic", recovered.String()).Msg("Challenge planning panicked")
				outcome.plan = nil
			}

			return outcome
		})
	}

	plans := map[string]*Plan{}
	for _, outcome := range p.Wait() {
		plans[string(outcome.challenge)] = outcome.plan
	}

	// A cancelled recompute must not replace a good cache with partial results.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	order := make([]string, 0, len(s.options.Challenges))
	for _, challenge := range s.options.Challenges {
		order = append(order, string(challenge))
	}

	log.Info().Int("challenges", len(order)).Dur("took", time.Since(startTime)).Msg("Computed challenges")

	return plans, order, nil
}

func (s *Service) strategy(challenge planner.Challenge) (planner.Strategy, error) {
	if strategy, exists := s.options.Strategies[challenge]; exists {
		return strategy, nil
	}
	return planner.StrategyFor(challenge)
}

func (s *Service) planChallenge(ctx context.Context, network *planner.Network, challenge planner.Challenge) *Plan {
	strategy, err := s.strategy(challenge)
	if err != nil {
		log.Error().Err(err).Str("challenge", string(challenge)).Msg("Unknown challenge")
		return nil
	}

	if s.options.ChallengeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.ChallengeTimeout)
		defer cancel()
	}

	result, err := planner.New(network).Plan(ctx, strategy)
	if err != nil {
		log.Warn().Err(err).Str("challenge", string(challenge)).Msg("Challenge planning failed")
		return nil
	}
	if result == nil {
		log.Info().Str("challenge", string(challenge)).Msg("No itinerary found")
		return nil
	}

	return Assemble(result, network)
}
