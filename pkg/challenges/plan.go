package challenges

import "github.com/reroute-fukuoka/reroute/pkg/planner"

type Coordinate struct {
	Lat float64 `groups:"detailed" json:"lat" yaml:"lat"`
	Lon float64 `groups:"detailed" json:"lon" yaml:"lon"`
}

// LineGeometry is a GeoJSON LineString with lon/lat coordinate pairs.
type LineGeometry struct {
	Type        string       `groups:"detailed" json:"type" yaml:"type"`
	Coordinates [][2]float64 `groups:"detailed" json:"coordinates" yaml:"coordinates"`
}

type Leg struct {
	Sequence    int      `groups:"detailed" json:"sequence" yaml:"sequence"`
	LineLabel   string   `groups:"detailed" json:"line_label" yaml:"line_label"`
	LineName    string   `groups:"detailed" json:"line_name" yaml:"line_name"`
	FromStop    string   `groups:"detailed" json:"from_stop" yaml:"from_stop"`
	ToStop      string   `groups:"detailed" json:"to_stop" yaml:"to_stop"`
	Departure   string   `groups:"detailed" json:"departure" yaml:"departure"`
	Arrival     string   `groups:"detailed" json:"arrival" yaml:"arrival"`
	RideMinutes int      `groups:"detailed" json:"ride_minutes" yaml:"ride_minutes"`
	DistanceKm  float64  `groups:"detailed" json:"distance_km" yaml:"distance_km"`
	Notes       []string `groups:"detailed" json:"notes" yaml:"notes"`

	Geometry  *LineGeometry `groups:"detailed" json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Path      []Coordinate  `groups:"detailed" json:"path,omitempty" yaml:"path,omitempty"`
	FromCoord *Coordinate   `groups:"detailed" json:"from_coord,omitempty" yaml:"from_coord,omitempty"`
	ToCoord   *Coordinate   `groups:"detailed" json:"to_coord,omitempty" yaml:"to_coord,omitempty"`
}

type RestStop struct {
	At         string `groups:"detailed" json:"at" yaml:"at"`
	Minutes    int    `groups:"detailed" json:"minutes" yaml:"minutes"`
	Suggestion string `groups:"detailed" json:"suggestion" yaml:"suggestion"`
}

// Plan is an assembled challenge itinerary. The basic group is the summary
// served in listings; detailed adds legs and rest stops.
type Plan struct {
	ID               string   `groups:"basic" json:"id" yaml:"id"`
	Title            string   `groups:"basic" json:"title" yaml:"title"`
	Tagline          string   `groups:"basic" json:"tagline" yaml:"tagline"`
	ThemeTags        []string `groups:"basic" json:"theme_tags" yaml:"theme_tags"`
	StartStop        string   `groups:"basic" json:"start_stop" yaml:"start_stop"`
	StartTime        string   `groups:"basic" json:"start_time" yaml:"start_time"`
	TotalRideMinutes int      `groups:"basic" json:"total_ride_minutes" yaml:"total_ride_minutes"`
	TotalDistanceKm  float64  `groups:"basic" json:"total_distance_km" yaml:"total_distance_km"`
	Transfers        int      `groups:"basic" json:"transfers" yaml:"transfers"`
	Wards            []string `groups:"basic" json:"wards" yaml:"wards"`
	Badges           []string `groups:"basic" json:"badges" yaml:"badges"`
	Method           string   `groups:"basic" json:"method,omitempty" yaml:"method,omitempty"`

	Legs      []Leg      `groups:"detailed" json:"legs" yaml:"legs"`
	RestStops []RestStop `groups:"detailed" json:"rest_stops" yaml:"rest_stops"`
}

type metadata struct {
	Title     string
	Tagline   string
	ThemeTags []string
	Badge     string
}

var challengeMetadata = map[planner.Challenge]metadata{
	planner.ChallengeLongestDuration: {
		Title:     "24 Hour Long Ride",
		Tagline:   "Start at Hakata and keep riding for as long as the pass allows.",
		ThemeTags: []string{"Time on board", "Endurance"},
		Badge:     "Longest Ride",
	},
	planner.ChallengeMostStops: {
		Title:     "Unique Stop Collector",
		Tagline:   "Touch as many different stops as possible and make it back to Hakata within 24 hours.",
		ThemeTags: []string{"Stop collecting", "Hakata round trip"},
		Badge:     "Stop Hunter",
	},
	planner.ChallengeCityLoop: {
		Title:     "Fukuoka City Loop",
		Tagline:   "Visit the northeast, southeast, southwest and northwest of the city in one sweep back to the start.",
		ThemeTags: []string{"City loop", "Circuit"},
		Badge:     "Loop Master",
	},
	planner.ChallengeLongestDistance: {
		Title:     "Longest Distance Run",
		Tagline:   "Cover the greatest distance on the pass while staying close to the city edge.",
		ThemeTags: []string{"Distance", "Outskirts"},
		Badge:     "Distance King",
	},
}

func metadataFor(challenge planner.Challenge) metadata {
	if meta, exists := challengeMetadata[challenge]; exists {
		return meta
	}
	return metadata{Title: string(challenge), Badge: string(challenge)}
}
