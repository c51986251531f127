package planner

type LongestDistance struct {
	TransferPenalty float64
}

func NewLongestDistance() *LongestDistance {
	return &LongestDistance{TransferPenalty: 900}
}

func (s *LongestDistance) Challenge() Challenge {
	return ChallengeLongestDistance
}

func (s *LongestDistance) Constraints() Constraints {
	return Constraints{
		MaxRounds:          50,
		MinTransferMinutes: 5,
		MaxStopVisits:      4,
		MaxLineVisits:      2,
		Geometry:           true,
	}
}

func (s *LongestDistance) Beam() BeamParameters {
	return BeamParameters{
		MaxQueue:      3500,
		MaxExpansions: 220000,
		MaxBranch:     12,
	}
}

func (s *LongestDistance) Score(label *Label) float64 {
	metrics := label.Metrics()

	return label.DistanceKm*12500 +
		metrics.AvgLegDistance*1000 +
		metrics.MaxLegDistance*500 +
		float64(metrics.UniqueLines)*800 +
		metrics.AvgRadius*220 +
		float64(metrics.Quadrants)*1500 +
		metrics.HullArea*60 +
		metrics.BoundaryRatio*2500 -
		float64(metrics.RepeatPenalty)*700 -
		metrics.CentreRatio*3200 -
		float64(metrics.StopRepeatTotal)*900 -
		float64(label.Transfers())*s.TransferPenalty
}

var longestDistanceAxes = []axis{
	func(label *Label) float64 { return label.DistanceKm },
	func(label *Label) float64 { return label.Metrics().AvgRadius },
	func(label *Label) float64 { return label.Metrics().BoundaryRatio },
	byArrival,
}

func (s *LongestDistance) Dominates(a *Label, b *Label) bool {
	return paretoDominates(a, b, longestDistanceAxes...)
}

func (s *LongestDistance) Equivalent(a *Label, b *Label) bool {
	return equivalent(a, b, longestDistanceAxes...)
}

func (s *LongestDistance) Accept(label *Label) bool {
	return label.DistanceKm > 0
}
