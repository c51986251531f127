package planner

import "github.com/reroute-fukuoka/reroute/pkg/transit"

// CityLoop rewards wide loops around the origin that pass through all four
// quadrants and hug the city boundary.
type CityLoop struct {
	TransferPenalty float64

	MinHullArea      float64
	MinAvgRadius     float64
	MinAngleSpan     float64
	MinBoundaryRatio float64
}

func NewCityLoop() *CityLoop {
	return &CityLoop{
		TransferPenalty:  900,
		MinHullArea:      25,
		MinAvgRadius:     3,
		MinAngleSpan:     180,
		MinBoundaryRatio: 0.3,
	}
}

func (s *CityLoop) Challenge() Challenge {
	return ChallengeCityLoop
}

func (s *CityLoop) Constraints() Constraints {
	return Constraints{
		MaxRounds:           50,
		MinTransferMinutes:  5,
		MaxStopVisits:       2,
		OriginMaxVisits:     2,
		RequireAllQuadrants: true,
		Geometry:            true,
	}
}

func (s *CityLoop) Beam() BeamParameters {
	return BeamParameters{
		MaxQueue:           3500,
		MaxExpansions:      220000,
		MaxBranch:          12,
		StopAtFullCoverage: true,
	}
}

func (s *CityLoop) Score(label *Label) float64 {
	metrics := label.Metrics()

	if metrics.Quadrants < 4 {
		return float64(metrics.Quadrants)*1200 +
			metrics.AvgRadius*80 +
			metrics.BoundaryRatio*1800 -
			float64(metrics.StopRepeatTotal)*1200
	}

	return metrics.HullArea*120 +
		metrics.AvgRadius*220 +
		metrics.AngleSpan*35 +
		metrics.TurnSum*25 +
		label.DistanceKm*25 +
		metrics.BoundaryRatio*8000 +
		metrics.BoundaryProgress*6000 +
		metrics.MinQuadrantRadius*1000 -
		metrics.CentreRatio*4500 -
		float64(metrics.RepeatPenalty)*500 -
		float64(metrics.StopRepeatTotal)*1500 -
		float64(label.Transfers())*s.TransferPenalty
}

var cityLoopAxes = []axis{
	func(label *Label) float64 { return float64(label.Metrics().Quadrants) },
	func(label *Label) float64 { return label.Metrics().BoundaryRatio },
	func(label *Label) float64 { return label.Metrics().HullArea },
	byArrival,
}

func (s *CityLoop) Dominates(a *Label, b *Label) bool {
	return paretoDominates(a, b, cityLoopAxes...)
}

func (s *CityLoop) Equivalent(a *Label, b *Label) bool {
	return equivalent(a, b, cityLoopAxes...)
}

func (s *CityLoop) Accept(label *Label) bool {
	metrics := label.Metrics()

	return label.QuadrantMask == transit.AllQuadrants &&
		metrics.HullArea >= s.MinHullArea &&
		metrics.AvgRadius >= s.MinAvgRadius &&
		metrics.AngleSpan >= s.MinAngleSpan &&
		metrics.BoundaryRatio >= s.MinBoundaryRatio
}
