package planner

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/timetable"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

const (
	DefaultMaxLabelsPerStop = 6
	DefaultInnerRadiusKm    = 2.0

	shortLegKm = 0.5
)

var ErrNoOrigins = errors.New("network has no origin stops")
var ErrNoTimetable = errors.New("network has no timetable")

type NetworkConfig struct {
	Stations map[string]transit.Station
	Origins  []string

	// Centre is the reference point for radius, quadrant and projection.
	CentreLat float64
	CentreLon float64

	Timetable *timetable.Timetable
	Boundary  timetable.Boundary

	InnerRadiusKm    float64
	HorizonStart     int
	MaxLabelsPerStop int
}

// Network is the immutable planning input shared by every challenge worker.
type Network struct {
	Stations  map[string]transit.Station
	Origins   []string
	Timetable *timetable.Timetable
	Boundary  timetable.Boundary

	InnerRadiusKm    float64
	HorizonStart     int
	MaxLabelsPerStop int

	projection geometry.Projection
	originSet  map[string]bool
	points     map[string]orb.Point
	radius     map[string]float64
	quadrant   map[string]transit.Quadrant
}

func NewNetwork(config NetworkConfig) (*Network, error) {
	if config.Timetable == nil {
		return nil, ErrNoTimetable
	}

	network := &Network{
		Stations:         config.Stations,
		Timetable:        config.Timetable,
		Boundary:         config.Boundary,
		InnerRadiusKm:    config.InnerRadiusKm,
		HorizonStart:     config.HorizonStart,
		MaxLabelsPerStop: config.MaxLabelsPerStop,

		projection: geometry.NewProjection(config.CentreLat, config.CentreLon),
		originSet:  map[string]bool{},
		points:     map[string]orb.Point{},
		radius:     map[string]float64{},
		quadrant:   map[string]transit.Quadrant{},
	}

	if network.InnerRadiusKm <= 0 {
		network.InnerRadiusKm = DefaultInnerRadiusKm
	}
	if network.HorizonStart <= 0 {
		network.HorizonStart = transit.StartTimeMinutes
	}
	if network.MaxLabelsPerStop <= 0 {
		network.MaxLabelsPerStop = DefaultMaxLabelsPerStop
	}
	if network.Boundary.Index == nil {
		network.Boundary.Index = map[string]int{}
	}

	for _, origin := range config.Origins {
		if _, exists := config.Stations[origin]; !exists || network.originSet[origin] {
			continue
		}
		network.originSet[origin] = true
		network.Origins = append(network.Origins, origin)
	}

	if len(network.Origins) == 0 {
		return nil, ErrNoOrigins
	}

	for code, station := range config.Stations {
		network.points[code] = network.projection.Project(station.Lat, station.Lon)
		network.radius[code] = geometry.HaversineKm(station.Lat, station.Lon, config.CentreLat, config.CentreLon)
		network.quadrant[code] = geometry.QuadrantOf(station.Lat, station.Lon, config.CentreLat, config.CentreLon)
	}

	return network, nil
}

func (n *Network) IsOrigin(stopCode string) bool {
	return n.originSet[stopCode]
}

func (n *Network) TimeLimit() int {
	return n.HorizonStart + transit.MinutesPerDay
}

func (n *Network) Point(stopCode string) (orb.Point, bool) {
	point, ok := n.points[stopCode]
	return point, ok
}

func (n *Network) Radius(stopCode string) float64 {
	return n.radius[stopCode]
}

func (n *Network) Quadrant(stopCode string) transit.Quadrant {
	return n.quadrant[stopCode]
}

func (n *Network) PlanarDistance(a string, b string) float64 {
	pointA, okA := n.points[a]
	pointB, okB := n.points[b]
	if !okA || !okB {
		return math.Inf(1)
	}
	return geometry.PlanarKm(pointA, pointB)
}

// QuadrantMask is the union of the quadrants of the given stops.
func (n *Network) QuadrantMask(stopCodes ...string) int {
	mask := 0
	for _, stopCode := range stopCodes {
		mask |= int(n.quadrant[stopCode])
	}
	return mask
}
