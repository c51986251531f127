package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	defaultDataDir         = "data"
	defaultTimezone        = "Asia/Tokyo"
	defaultRealtimeSeconds = 120

	ProviderEkispert = "ekispert"
	ProviderGTFSRT   = "gtfsrt"
)

var ErrInvalidStartTime = errors.New("start time must be HH:MM")

type Config struct {
	DataDir   string
	Timezone  string
	Snapshots bool

	Realtime RealtimeConfig
	Planner  PlannerConfig
}

type RealtimeConfig struct {
	Enabled        bool
	Provider       string
	EkispertAPIKey string
	GTFSRTURL      string
	CacheTTL       time.Duration
}

type BoundaryConfig struct {
	Bins      int     `yaml:"bins"`
	MinDistKm float64 `yaml:"min_dist_km"`
	MaxDistKm float64 `yaml:"max_dist_km"`
}

type CoordinateConfig struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// PlannerConfig is the optional planner tuning file. Zero values keep the
// package defaults.
type PlannerConfig struct {
	StartTime        string        `yaml:"start_time"`
	ChallengeTimeout time.Duration `yaml:"challenge_timeout"`
	Challenges       []string      `yaml:"challenges"`

	InnerRadiusKm    float64        `yaml:"inner_radius_km"`
	MaxLabelsPerStop int            `yaml:"max_labels_per_stop"`
	MaxTripsPerRoute int            `yaml:"max_trips_per_route"`
	MaxRoutes        int            `yaml:"max_routes"`
	Boundary         BoundaryConfig `yaml:"boundary"`

	OriginKeywords []string          `yaml:"origin_keywords"`
	FallbackOrigin *CoordinateConfig `yaml:"fallback_origin"`
}

// StartMinutes parses StartTime, returning 0 when it is unset.
func (p PlannerConfig) StartMinutes() (int, error) {
	if p.StartTime == "" {
		return 0, nil
	}

	hours, minutes, found := strings.Cut(p.StartTime, ":")
	if !found {
		return 0, ErrInvalidStartTime
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidStartTime
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidStartTime
	}
	return h*60 + m, nil
}

// Load reads the configuration from REROUTE_* environment variables and the
// planner tuning file named by REROUTE_PLANNER_CONFIG.
func Load() (*Config, error) {
	return FromEnvironment(util.GetEnvironmentVariables())
}

func FromEnvironment(env map[string]string) (*Config, error) {
	config := &Config{
		DataDir:   defaultDataDir,
		Timezone:  defaultTimezone,
		Snapshots: util.IsEnabled(env["REROUTE_SNAPSHOTS"]),
		Realtime: RealtimeConfig{
			Enabled:        util.IsEnabled(env["REROUTE_REALTIME_ENABLED"]),
			Provider:       ProviderEkispert,
			EkispertAPIKey: util.FirstSet(env, "REROUTE_EKISPERT_API_KEY", "EKISPERT_API_KEY"),
			GTFSRTURL:      env["REROUTE_GTFSRT_URL"],
			CacheTTL:       defaultRealtimeSeconds * time.Second,
		},
	}

	if env["REROUTE_DATA_DIR"] != "" {
		config.DataDir = env["REROUTE_DATA_DIR"]
	}

	if env["REROUTE_TIMEZONE"] != "" {
		config.Timezone = env["REROUTE_TIMEZONE"]
	}

	if env["REROUTE_REALTIME_PROVIDER"] != "" {
		config.Realtime.Provider = strings.ToLower(env["REROUTE_REALTIME_PROVIDER"])
	}

	if env["REROUTE_REALTIME_CACHE_SECONDS"] != "" {
		seconds, err := strconv.Atoi(env["REROUTE_REALTIME_CACHE_SECONDS"])
		if err != nil {
			return nil, fmt.Errorf("REROUTE_REALTIME_CACHE_SECONDS: %w", err)
		}
		config.Realtime.CacheTTL = time.Duration(seconds) * time.Second
	}

	if path := env["REROUTE_PLANNER_CONFIG"]; path != "" {
		planner, err := LoadPlannerFile(path)
		if err != nil {
			return nil, err
		}
		config.Planner = planner
	}

	if _, err := config.Planner.StartMinutes(); err != nil {
		return nil, err
	}

	return config, nil
}

func LoadPlannerFile(path string) (PlannerConfig, error) {
	var planner PlannerConfig

	body, err := os.ReadFile(path)
	if err != nil {
		return planner, err
	}

	if err := yaml.Unmarshal(body, &planner); err != nil {
		return planner, fmt.Errorf("parsing %s: %w", path, err)
	}
	return planner, nil
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
