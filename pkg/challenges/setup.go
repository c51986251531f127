package challenges

import (
	"fmt"

	"github.com/reroute-fukuoka/reroute/pkg/config"
	"github.com/reroute-fukuoka/reroute/pkg/loader"
	"github.com/reroute-fukuoka/reroute/pkg/planner"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/reroute-fukuoka/reroute/pkg/realtime/ekispert"
	"github.com/reroute-fukuoka/reroute/pkg/realtime/gtfsrt"
	"github.com/reroute-fukuoka/reroute/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// NewServiceFromConfig wires a service to the data directory, realtime
// source and snapshot store named by the configuration.
func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	options, err := ServiceOptions(cfg)
	if err != nil {
		return nil, err
	}

	if source := realtimeSource(cfg); source != nil {
		options.Realtime = realtime.NewManager(source, cfg.Realtime.CacheTTL)
	}

	if cfg.Snapshots {
		if err := redis_client.Connect(); err != nil {
			return nil, fmt.Errorf("connecting snapshot store: %w", err)
		}
		options.Snapshots = NewRedisSnapshotStore(redis_client.Client, DefaultSnapshotExpiration)
	}

	return NewService(Directory(cfg), options), nil
}

// Directory returns the data source for the configured directory.
func Directory(cfg *config.Config) *loader.Directory {
	directory := loader.NewDirectory(cfg.DataDir)
	if len(cfg.Planner.OriginKeywords) > 0 {
		directory.OriginKeywords = cfg.Planner.OriginKeywords
	}
	if cfg.Planner.FallbackOrigin != nil {
		directory.FallbackLat = cfg.Planner.FallbackOrigin.Lat
		directory.FallbackLon = cfg.Planner.FallbackOrigin.Lon
	}
	return directory
}

// ServiceOptions applies the planner tuning on top of the defaults.
func ServiceOptions(cfg *config.Config) (Options, error) {
	options := DefaultOptions()
	tuning := cfg.Planner

	if len(tuning.Challenges) > 0 {
		options.Challenges = nil
		for _, id := range tuning.Challenges {
			challenge := planner.Challenge(id)
			if !slices.Contains(planner.Challenges, challenge) {
				return options, fmt.Errorf("unknown challenge %q", id)
			}
			options.Challenges = append(options.Challenges, challenge)
		}
	}

	startMinutes, err := tuning.StartMinutes()
	if err != nil {
		return options, err
	}
	if startMinutes > 0 {
		options.StartMinutes = startMinutes
	}

	options.ChallengeTimeout = tuning.ChallengeTimeout

	if tuning.InnerRadiusKm > 0 {
		options.InnerRadiusKm = tuning.InnerRadiusKm
		options.Boundary.InnerRadiusKm = tuning.InnerRadiusKm
	}
	if tuning.MaxLabelsPerStop > 0 {
		options.MaxLabelsPerStop = tuning.MaxLabelsPerStop
	}
	if tuning.MaxTripsPerRoute > 0 {
		options.Timetable.MaxTripsPerRoute = tuning.MaxTripsPerRoute
	}
	if tuning.MaxRoutes > 0 {
		options.Timetable.MaxRoutes = tuning.MaxRoutes
	}
	if tuning.Boundary.Bins > 0 {
		options.Boundary.Bins = tuning.Boundary.Bins
	}
	if tuning.Boundary.MinDistKm > 0 {
		options.Boundary.MinDistKm = tuning.Boundary.MinDistKm
	}
	if tuning.Boundary.MaxDistKm > 0 {
		options.Boundary.MaxDistKm = tuning.Boundary.MaxDistKm
	}

	return options, nil
}

func realtimeSource(cfg *config.Config) realtime.Source {
	if !cfg.Realtime.Enabled {
		return nil
	}

	switch cfg.Realtime.Provider {
	case config.ProviderGTFSRT:
		if cfg.Realtime.GTFSRTURL == "" {
			log.Warn().Msg("Realtime requested but REROUTE_GTFSRT_URL is missing, using static data")
			return nil
		}
		return gtfsrt.NewFeed(cfg.Realtime.GTFSRTURL, cfg.Location())
	case config.ProviderEkispert:
		if cfg.Realtime.EkispertAPIKey == "" {
			log.Warn().Msg("Realtime requested but the Ekispert API key is missing, using static data")
			return nil
		}
		return ekispert.NewClient(cfg.Realtime.EkispertAPIKey)
	default:
		log.Warn().Str("provider", cfg.Realtime.Provider).Msg("Unknown realtime provider, using static data")
		return nil
	}
}
