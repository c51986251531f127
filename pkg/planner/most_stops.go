package planner

type MostStops struct {
	TransferPenalty float64
}

func NewMostStops() *MostStops {
	return &MostStops{TransferPenalty: 1000}
}

func (s *MostStops) Challenge() Challenge {
	return ChallengeMostStops
}

func (s *MostStops) Constraints() Constraints {
	return Constraints{
		MaxRounds:          5,
		MinTransferMinutes: 6,
		MaxStopVisits:      4,
		OriginMaxVisits:    2,
		MaxLineVisits:      3,
	}
}

func (s *MostStops) Beam() BeamParameters {
	return BeamParameters{
		MaxQueue:      3200,
		MaxExpansions: 180000,
		MaxBranch:     10,
		RequireUnique: true,
	}
}

func (s *MostStops) Score(label *Label) float64 {
	metrics := label.Metrics()

	return float64(metrics.UniqueStops)*12000 +
		float64(metrics.Quadrants)*1200 +
		metrics.AvgRadius*180 +
		label.DistanceKm*40 +
		metrics.BoundaryRatio*2500 -
		metrics.CentreRatio*2500 -
		float64(metrics.RepeatPenalty)*600 -
		float64(metrics.StopRepeatTotal)*1600 -
		float64(label.Transfers())*s.TransferPenalty
}

var mostStopsAxes = []axis{
	func(label *Label) float64 { return float64(label.Metrics().UniqueStops) },
	byArrival,
}

func (s *MostStops) Dominates(a *Label, b *Label) bool {
	return paretoDominates(a, b, mostStopsAxes...)
}

func (s *MostStops) Equivalent(a *Label, b *Label) bool {
	return equivalent(a, b, mostStopsAxes...)
}

func (s *MostStops) Accept(label *Label) bool {
	return label.UniqueStops() > 1
}
